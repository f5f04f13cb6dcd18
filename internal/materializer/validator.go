// Reference integrity validation. The batch path is a look-before-write
// step: the whole batch is scanned before any entity in it is written, so
// the store never holds a partially-linked graph.
package materializer

import (
	"fmt"

	"github.com/meshgraph/loom/internal/registry"
	"github.com/meshgraph/loom/pkg/types"
)

// batchContext indexes the entities newly introduced by one batch, keyed
// by class name in batch order. Class names are resolved from the batch's
// own creation records, not the store. The context is immutable after
// construction and scoped to a single validation pass.
type batchContext struct {
	created map[types.KnownClass]map[string]bool
}

// newBatchContext builds the batch-local entity index. Operations whose
// class id is outside the known set contribute nothing; their entities
// only exist as index rows and cannot be reference targets.
func newBatchContext(batch []types.CreateOperation) *batchContext {
	ctx := &batchContext{created: make(map[types.KnownClass]map[string]bool)}
	for _, op := range batch {
		class, ok := registry.ClassName(op.ClassID)
		if !ok {
			continue
		}
		ids, ok := ctx.created[class]
		if !ok {
			ids = make(map[string]bool)
			ctx.created[class] = ids
		}
		ids[op.EntityID] = true
	}
	return ctx
}

// contains reports whether the batch introduces an entity of the given
// class with the given id.
func (c *batchContext) contains(class types.KnownClass, id string) bool {
	return c.created[class][id]
}

// validateBatch scans every reference in every decoded bag of the batch.
// Existing references must have a persisted typed row of the target class;
// batch-local references must appear among the batch's own entities of the
// target class. The scan fails fast: the first unresolved reference marks
// the whole batch as unresolvable and stops scanning. Returns false with a
// nil error for an unresolvable batch; errors are store failures only.
func (d *Dispatcher) validateBatch(batch []types.CreateOperation, bags []*types.Bag) (bool, error) {
	ctx := newBatchContext(batch)

	for i, bag := range bags {
		if bag == nil {
			continue
		}
		for name, ref := range bag.Refs {
			target, ok := registry.RefTarget(bag.Class, name)
			if !ok {
				return false, fmt.Errorf("class %s property %q is not a reference: %w",
					bag.Class, name, types.ErrInvalidData)
			}
			if ref.Existing {
				persisted, err := d.store.HasRow(target, ref.Target)
				if err != nil {
					return false, fmt.Errorf("checking %s %s: %w", target, ref.Target, err)
				}
				if !persisted {
					d.log.Debug("batch reference unresolved",
						"entity", batch[i].EntityID, "property", name, "target", ref.Target)
					return false, nil
				}
				continue
			}
			if !ctx.contains(target, ref.Target) {
				d.log.Debug("batch-local reference unresolved",
					"entity", batch[i].EntityID, "property", name, "target", ref.Target)
				return false, nil
			}
		}
	}
	return true, nil
}

// checkStoredRefs runs the lighter single-entity check for standalone
// schema-attach and update events. Without batch context only the
// persisted store can satisfy a reference, so a batch-local tag is
// unresolved by definition. Returns false when the event must be dropped.
func (d *Dispatcher) checkStoredRefs(bag *types.Bag) (bool, error) {
	for name, ref := range bag.Refs {
		target, ok := registry.RefTarget(bag.Class, name)
		if !ok {
			return false, fmt.Errorf("class %s property %q is not a reference: %w",
				bag.Class, name, types.ErrInvalidData)
		}
		if !ref.Existing {
			return false, nil
		}
		persisted, err := d.store.HasRow(target, ref.Target)
		if err != nil {
			return false, fmt.Errorf("checking %s %s: %w", target, ref.Target, err)
		}
		if !persisted {
			return false, nil
		}
	}
	return true, nil
}
