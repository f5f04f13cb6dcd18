package types

// Event kinds emitted by the ledger, in the decoded form the dispatcher
// consumes. Decoding of the ledger's native wire encoding happens upstream.
const (
	EventEntityCreated         = "EntityCreated"
	EventSchemaSupportAdded    = "EntitySchemaSupportAdded"
	EventPropertyValuesUpdated = "EntityPropertyValuesUpdated"
	EventEntityRemoved         = "EntityRemoved"
	EventTransactionCompleted  = "TransactionCompleted"
)

// Event is a single decoded ledger event. Fields beyond Kind and Block are
// populated per kind: ClassID only for EntityCreated, Values for the
// schema-attach and update kinds, Batch only for TransactionCompleted.
type Event struct {
	Kind     string            `json:"kind"`
	Block    BlockRef          `json:"block"`
	ClassID  uint32            `json:"class_id,omitempty"`
	EntityID string            `json:"entity_id,omitempty"`
	Values   []RawValue        `json:"values,omitempty"`
	Batch    []CreateOperation `json:"batch,omitempty"`
}

// CreateOperation is one entity-creation operation inside a batch: the
// entity's class, its ledger-assigned id, and the raw property values to
// attach. Operations are ordered; entity ids must strictly increase with
// batch position.
type CreateOperation struct {
	ClassID  uint32     `json:"class_id"`
	EntityID string     `json:"entity_id"`
	Values   []RawValue `json:"values"`
}

// Outcome classifies what processing an event did to the store. Dropped
// and Ignored are deliberate silent skips, not errors; fatal conditions
// are returned as errors instead.
type Outcome int

const (
	// OutcomeApplied means the event mutated the store.
	OutcomeApplied Outcome = iota

	// OutcomeDropped means a single event was skipped and the store is
	// unchanged (unknown class on creation, or a dangling reference).
	OutcomeDropped

	// OutcomeIgnored means a whole batch was discarded before any write.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDropped:
		return "dropped"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}
