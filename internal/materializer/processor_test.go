package materializer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshgraph/loom/pkg/types"
)

func TestProcessorRun(t *testing.T) {
	t.Run("counts outcomes and preserves event order", func(t *testing.T) {
		store := setupStore(t)
		proc := NewProcessor(store, nil)

		events := []types.Event{
			{Kind: types.EventEntityCreated, Block: types.BlockRef{Height: 100}, ClassID: classIDLanguage, EntityID: "1"},
			{Kind: types.EventSchemaSupportAdded, Block: types.BlockRef{Height: 100}, EntityID: "1",
				Values: []types.RawValue{{Value: "English"}, {Value: "en"}}},
			{Kind: types.EventEntityCreated, Block: types.BlockRef{Height: 101}, ClassID: classIDVideo, EntityID: "2"},
			// Dropped: references a channel that never existed.
			{Kind: types.EventSchemaSupportAdded, Block: types.BlockRef{Height: 101}, EntityID: "2",
				Values: []types.RawValue{{Ref: &types.RawRef{Target: "404", Existing: true}}}},
			// Ignored: batch with an unresolvable reference.
			{Kind: types.EventTransactionCompleted, Block: types.BlockRef{Height: 102},
				Batch: []types.CreateOperation{{ClassID: classIDVideo, EntityID: "3",
					Values: []types.RawValue{{Ref: &types.RawRef{Target: "404", Existing: true}}}}}},
		}

		stats, err := proc.Run(context.Background(), events)
		require.NoError(t, err)
		assert.Equal(t, Stats{Applied: 3, Dropped: 1, Ignored: 1}, stats)
	})

	t.Run("halts on fatal error, earlier writes stay", func(t *testing.T) {
		store := setupStore(t)
		proc := NewProcessor(store, nil)

		events := []types.Event{
			{Kind: types.EventEntityCreated, Block: types.BlockRef{Height: 100}, ClassID: classIDLanguage, EntityID: "1"},
			// Fatal: update of an entity whose class cannot resolve.
			{Kind: types.EventPropertyValuesUpdated, Block: types.BlockRef{Height: 100}, EntityID: "99",
				Values: []types.RawValue{{Value: "x"}}},
			{Kind: types.EventEntityCreated, Block: types.BlockRef{Height: 100}, ClassID: classIDLanguage, EntityID: "2"},
		}

		stats, err := proc.Run(context.Background(), events)
		require.ErrorIs(t, err, types.ErrUnknownClass)
		assert.Equal(t, 1, stats.Applied)

		_, err = store.GetClassEntity("1")
		require.NoError(t, err)
		_, err = store.GetClassEntity("2")
		assert.ErrorIs(t, err, types.ErrNotFound, "no events applied past the fatal one")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		store := setupStore(t)
		proc := NewProcessor(store, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := proc.Run(ctx, []types.Event{
			{Kind: types.EventEntityCreated, Block: types.BlockRef{Height: 100}, ClassID: classIDLanguage, EntityID: "1"},
		})
		assert.ErrorIs(t, err, context.Canceled)

		_, err = store.GetClassEntity("1")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("records a run even when empty", func(t *testing.T) {
		store := setupStore(t)
		proc := NewProcessor(store, nil)

		stats, err := proc.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, Stats{}, stats)
	})
}
