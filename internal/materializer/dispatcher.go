// Package materializer applies decoded ledger events to the typed store.
// The dispatcher routes each event to the matching per-class lifecycle
// handler, after class resolution and reference integrity checks; batches
// are validated in full before any write.
package materializer

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/meshgraph/loom/internal/decode"
	"github.com/meshgraph/loom/internal/registry"
	"github.com/meshgraph/loom/pkg/types"
)

// Dispatcher consumes decoded events one at a time, in ledger emission
// order, and performs the create/update/remove lifecycle transitions on
// the store. It is not safe for concurrent use; event processing is
// strictly sequential.
type Dispatcher struct {
	store    types.Store
	resolver *registry.Resolver
	log      *slog.Logger
}

// NewDispatcher returns a Dispatcher writing to the given store. A nil
// logger discards debug output.
func NewDispatcher(store types.Store, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		store:    store,
		resolver: registry.NewResolver(store),
		log:      log,
	}
}

// Apply processes one event. The returned Outcome says whether the store
// was mutated; a non-nil error is fatal for the current block and the
// caller must halt ingestion.
func (d *Dispatcher) Apply(ev types.Event) (types.Outcome, error) {
	switch ev.Kind {
	case types.EventEntityCreated:
		return d.applyCreated(ev)
	case types.EventSchemaSupportAdded:
		return d.applySchemaAdded(ev)
	case types.EventPropertyValuesUpdated:
		return d.applyUpdated(ev)
	case types.EventEntityRemoved:
		return d.applyRemoved(ev)
	case types.EventTransactionCompleted:
		return d.applyBatch(ev)
	default:
		return types.OutcomeDropped, fmt.Errorf("event kind %q: %w", ev.Kind, types.ErrUnknownEventKind)
	}
}

// applyCreated writes the generic ClassEntity index row and advances the
// next-entity-id counter. No typed row is created, even for known classes;
// typed data arrives with schema support. Unknown class ids still get an
// index row.
func (d *Dispatcher) applyCreated(ev types.Event) (types.Outcome, error) {
	id, err := strconv.ParseUint(ev.EntityID, 10, 64)
	if err != nil {
		return types.OutcomeDropped, fmt.Errorf("entity id %q: %w", ev.EntityID, types.ErrInvalidID)
	}

	entity := &types.ClassEntity{
		ID:      ev.EntityID,
		ClassID: ev.ClassID,
		Version: ev.Block.Height,
		Block:   ev.Block,
	}
	if err := d.store.SaveClassEntity(entity); err != nil {
		return types.OutcomeDropped, fmt.Errorf("saving class entity %s: %w", ev.EntityID, err)
	}
	if err := d.store.AdvanceEntityID(id + 1); err != nil {
		return types.OutcomeDropped, fmt.Errorf("advancing entity id counter: %w", err)
	}
	return types.OutcomeApplied, nil
}

// applySchemaAdded attaches the first typed row to an existing entity. An
// unknown class is silently dropped: the ledger tracks classes the
// materializer does not. A dangling reference also drops the event.
func (d *Dispatcher) applySchemaAdded(ev types.Event) (types.Outcome, error) {
	class, known, err := d.resolver.ResolveClass(ev.EntityID)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !known {
		d.log.Debug("schema support for unknown class skipped", "entity", ev.EntityID)
		return types.OutcomeDropped, nil
	}

	bag, err := d.decodeValues(class, ev.Values)
	if err != nil {
		return types.OutcomeDropped, err
	}

	ok, err := d.checkStoredRefs(bag)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !ok {
		d.log.Debug("schema support dropped on unresolved reference", "entity", ev.EntityID, "class", class)
		return types.OutcomeDropped, nil
	}

	if err := d.createRow(class, ev.EntityID, bag, ev.Block); err != nil {
		return types.OutcomeDropped, fmt.Errorf("creating %s %s: %w", class, ev.EntityID, err)
	}
	if err := d.bumpClassEntity(ev.EntityID, ev.Block); err != nil {
		return types.OutcomeDropped, err
	}
	return types.OutcomeApplied, nil
}

// applyUpdated patches a typed row. Unlike creation, an unknown class here
// is fatal: an update implies the entity was already known.
func (d *Dispatcher) applyUpdated(ev types.Event) (types.Outcome, error) {
	class, known, err := d.resolver.ResolveClass(ev.EntityID)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !known {
		return types.OutcomeDropped, fmt.Errorf("updating entity %s: %w", ev.EntityID, types.ErrUnknownClass)
	}
	if ev.Values == nil {
		return types.OutcomeDropped, fmt.Errorf("updating entity %s: %w", ev.EntityID, types.ErrMissingExtrinsicData)
	}

	bag, err := d.decodeValues(class, ev.Values)
	if err != nil {
		return types.OutcomeDropped, err
	}

	ok, err := d.checkStoredRefs(bag)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !ok {
		d.log.Debug("update dropped on unresolved reference", "entity", ev.EntityID, "class", class)
		return types.OutcomeDropped, nil
	}

	if err := d.updateRow(class, ev.EntityID, bag, ev.Block); err != nil {
		return types.OutcomeDropped, fmt.Errorf("updating %s %s: %w", class, ev.EntityID, err)
	}
	if err := d.bumpClassEntity(ev.EntityID, ev.Block); err != nil {
		return types.OutcomeDropped, err
	}
	return types.OutcomeApplied, nil
}

// applyRemoved deletes the typed row, then the ClassEntity index row. The
// index row is only deleted once the typed remove has succeeded.
func (d *Dispatcher) applyRemoved(ev types.Event) (types.Outcome, error) {
	class, known, err := d.resolver.ResolveClass(ev.EntityID)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !known {
		return types.OutcomeDropped, fmt.Errorf("removing entity %s: %w", ev.EntityID, types.ErrUnknownClass)
	}

	if err := d.removeRow(class, ev.EntityID); err != nil {
		return types.OutcomeDropped, fmt.Errorf("removing %s %s: %w", class, ev.EntityID, err)
	}
	if err := d.store.RemoveClassEntity(ev.EntityID); err != nil {
		return types.OutcomeDropped, fmt.Errorf("removing class entity %s: %w", ev.EntityID, err)
	}
	return types.OutcomeApplied, nil
}

// applyBatch validates and applies one ledger transaction's entity
// creations atomically: either every entity in the batch is materialized
// or none is. Validation completes over the whole batch before the first
// write; after it passes, writes execute sequentially and a store failure
// partway through is fatal for the block.
func (d *Dispatcher) applyBatch(ev types.Event) (types.Outcome, error) {
	if len(ev.Batch) == 0 {
		return types.OutcomeDropped, fmt.Errorf("transaction event without operations: %w", types.ErrMissingExtrinsicData)
	}

	if err := checkBatchOrder(ev.Batch); err != nil {
		return types.OutcomeDropped, err
	}

	// Decode every operation up front; decoding is pure and must succeed
	// for the batch to be considered at all.
	bags := make([]*types.Bag, len(ev.Batch))
	for i, op := range ev.Batch {
		class, ok := registry.ClassName(op.ClassID)
		if !ok {
			// Unknown class: the entity gets an index row but no typed
			// row, and cannot be a reference target.
			continue
		}
		bag, err := d.decodeValues(class, op.Values)
		if err != nil {
			return types.OutcomeDropped, err
		}
		bags[i] = bag
	}

	ok, err := d.validateBatch(ev.Batch, bags)
	if err != nil {
		return types.OutcomeDropped, err
	}
	if !ok {
		d.log.Info("batch ignored on unresolved reference",
			"block", ev.Block.Height, "operations", len(ev.Batch))
		return types.OutcomeIgnored, nil
	}

	for i, op := range ev.Batch {
		id, err := strconv.ParseUint(op.EntityID, 10, 64)
		if err != nil {
			return types.OutcomeDropped, fmt.Errorf("entity id %q: %w", op.EntityID, types.ErrInvalidID)
		}
		entity := &types.ClassEntity{
			ID:      op.EntityID,
			ClassID: op.ClassID,
			Version: ev.Block.Height,
			Block:   ev.Block,
		}
		if err := d.store.SaveClassEntity(entity); err != nil {
			return types.OutcomeDropped, fmt.Errorf("saving class entity %s: %w", op.EntityID, err)
		}
		if err := d.store.AdvanceEntityID(id + 1); err != nil {
			return types.OutcomeDropped, fmt.Errorf("advancing entity id counter: %w", err)
		}
		if bags[i] == nil {
			continue
		}
		if err := d.createRow(bags[i].Class, op.EntityID, bags[i], ev.Block); err != nil {
			return types.OutcomeDropped, fmt.Errorf("creating %s %s: %w", bags[i].Class, op.EntityID, err)
		}
	}
	return types.OutcomeApplied, nil
}

// decodeValues resolves the class layout and decodes raw values into a bag.
func (d *Dispatcher) decodeValues(class types.KnownClass, values []types.RawValue) (*types.Bag, error) {
	layout, err := registry.Layout(class)
	if err != nil {
		return nil, err
	}
	bag, err := decode.Decode(class, layout, values)
	if err != nil {
		return nil, err
	}
	return bag, nil
}

// bumpClassEntity records a successful mutation on the index row.
func (d *Dispatcher) bumpClassEntity(id string, block types.BlockRef) error {
	entity, err := d.store.GetClassEntity(id)
	if err != nil {
		return fmt.Errorf("loading class entity %s: %w", id, err)
	}
	entity.Version = block.Height
	entity.Block = block
	if err := d.store.SaveClassEntity(entity); err != nil {
		return fmt.Errorf("saving class entity %s: %w", id, err)
	}
	return nil
}

// checkBatchOrder verifies the ledger's implicit ordering guarantee:
// entity ids strictly increase with batch position. A violating batch
// would break batch-local reference resolution, so it is fatal.
func checkBatchOrder(batch []types.CreateOperation) error {
	var prev uint64
	for i, op := range batch {
		id, err := strconv.ParseUint(op.EntityID, 10, 64)
		if err != nil {
			return fmt.Errorf("entity id %q: %w", op.EntityID, types.ErrInvalidID)
		}
		if i > 0 && id <= prev {
			return fmt.Errorf("entity %s at position %d: %w", op.EntityID, i, types.ErrBatchOrder)
		}
		prev = id
	}
	return nil
}
