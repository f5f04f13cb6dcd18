package types

import "time"

// Store is the persisted-graph access interface implemented by storage
// backends. All methods return ErrDetached when called before Attach or
// after Detach. Processing is single-writer; implementations do not need
// to support concurrent mutation.
type Store interface {
	// Attach connects the store to the backend described by config,
	// creating the data directory and schema as needed. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// GetClassEntity retrieves the index row for the given entity id.
	// Returns ErrNotFound if no entity exists with that id.
	GetClassEntity(id string) (*ClassEntity, error)

	// SaveClassEntity creates or replaces an index row.
	SaveClassEntity(e *ClassEntity) error

	// RemoveClassEntity deletes an index row.
	// Returns ErrNotFound if no entity exists with that id.
	RemoveClassEntity(id string) error

	// GetRow retrieves the typed row of the given class and entity id.
	// Returns ErrNotFound if the row does not exist.
	GetRow(class KnownClass, id string) (TypedRow, error)

	// HasRow reports whether a typed row of the given class exists.
	HasRow(class KnownClass, id string) (bool, error)

	// SaveRow creates or replaces a typed row.
	SaveRow(row TypedRow) error

	// RemoveRow deletes a typed row. Removing an absent row is a no-op;
	// schema-unset entities have an index row but no typed row.
	RemoveRow(class KnownClass, id string) error

	// NextEntityID returns the persisted next-entity-id counter.
	NextEntityID() (uint64, error)

	// AdvanceEntityID raises the counter to next if next is greater than
	// the current value. The counter never moves backwards.
	AdvanceEntityID(next uint64) error

	// RecordRun persists provenance for one ingestion run.
	RecordRun(run *IngestRun) error
}

// IngestRun is the provenance record of one sequential ingestion pass.
type IngestRun struct {
	RunID      string    // UUID v7, generated when the run starts.
	StartedAt  time.Time
	FinishedAt time.Time
	FirstBlock uint64
	LastBlock  uint64
	Applied    int
	Dropped    int
	Ignored    int
}
