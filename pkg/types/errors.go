package types

import "errors"

// Dispatch errors. These are fatal for the current event or block: the
// caller must halt ingestion rather than proceed with an inconsistent
// graph. Silent skips are reported as Outcome values, never as errors.
var (
	ErrUnknownClass         = errors.New("unknown class name")
	ErrMissingExtrinsicData = errors.New("missing extrinsic data")
	ErrBatchOrder           = errors.New("batch entity ids out of order")
	ErrUnknownEventKind     = errors.New("unknown event kind")
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("row not found")
	ErrInvalidID   = errors.New("invalid entity id")
	ErrInvalidData = errors.New("invalid entity data")
)

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
