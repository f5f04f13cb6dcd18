package types

// BlockRef is an opaque pointer to the ledger block that produced a
// mutation. It is attached to every row for provenance and versioning.
type BlockRef struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash,omitempty"`
}

// ClassEntity is the generic index row tracking existence and version of
// every entity, regardless of whether it has acquired a typed row yet.
// Unique per entity id. The row is owned by the event dispatcher; typed
// rows are owned by their class lifecycle handlers.
type ClassEntity struct {
	ID      string // Entity id in decimal string form.
	ClassID uint32 // Ledger class identifier, possibly outside the known set.
	Version uint64 // Block height of the last successful mutation.
	Block   BlockRef
}
