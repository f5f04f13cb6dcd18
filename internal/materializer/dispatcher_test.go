package materializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshgraph/loom/internal/sqlite"
	"github.com/meshgraph/loom/pkg/types"
)

// Class ids as registered in the registry tables.
const (
	classIDChannel  = 1
	classIDCategory = 2
	classIDVideo    = 3
	classIDLanguage = 7
	classIDUnknown  = 999
)

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func setupDispatcher(t *testing.T) (*Dispatcher, *sqlite.Backend) {
	t.Helper()
	store := setupStore(t)
	return NewDispatcher(store, nil), store
}

// createEntity applies an EntityCreated event and asserts it succeeded.
func createEntity(t *testing.T, d *Dispatcher, classID uint32, entityID string, height uint64) {
	t.Helper()
	outcome, err := d.Apply(types.Event{
		Kind:     types.EventEntityCreated,
		Block:    types.BlockRef{Height: height},
		ClassID:  classID,
		EntityID: entityID,
	})
	require.NoError(t, err)
	require.Equal(t, types.OutcomeApplied, outcome)
}

// attachSchema applies an EntitySchemaSupportAdded event.
func attachSchema(t *testing.T, d *Dispatcher, entityID string, height uint64, values []types.RawValue) types.Outcome {
	t.Helper()
	outcome, err := d.Apply(types.Event{
		Kind:     types.EventSchemaSupportAdded,
		Block:    types.BlockRef{Height: height},
		EntityID: entityID,
		Values:   values,
	})
	require.NoError(t, err)
	return outcome
}

func TestEntityCreated(t *testing.T) {
	t.Run("creates index row and advances counter", func(t *testing.T) {
		d, store := setupDispatcher(t)

		createEntity(t, d, classIDVideo, "10", 100)

		entity, err := store.GetClassEntity("10")
		require.NoError(t, err)
		assert.Equal(t, uint32(classIDVideo), entity.ClassID)
		assert.Equal(t, uint64(100), entity.Version)

		next, err := store.NextEntityID()
		require.NoError(t, err)
		assert.Equal(t, uint64(11), next)

		// No typed row yet; schema support has not been added.
		ok, err := store.HasRow(types.ClassVideo, "10")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown class still creates index row but never a typed row", func(t *testing.T) {
		d, store := setupDispatcher(t)

		createEntity(t, d, classIDUnknown, "5", 50)

		entity, err := store.GetClassEntity("5")
		require.NoError(t, err)
		assert.Equal(t, uint32(classIDUnknown), entity.ClassID)

		next, err := store.NextEntityID()
		require.NoError(t, err)
		assert.Equal(t, uint64(6), next)
	})

	t.Run("non-numeric entity id is fatal", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		_, err := d.Apply(types.Event{
			Kind:     types.EventEntityCreated,
			ClassID:  classIDVideo,
			EntityID: "ten",
		})
		assert.ErrorIs(t, err, types.ErrInvalidID)
	})
}

func TestSchemaSupportAdded(t *testing.T) {
	t.Run("attaches first typed row", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDLanguage, "7", 90)

		outcome := attachSchema(t, d, "7", 95, []types.RawValue{
			{Value: "English"}, {Value: "en"},
		})
		assert.Equal(t, types.OutcomeApplied, outcome)

		row, err := store.GetRow(types.ClassLanguage, "7")
		require.NoError(t, err)
		lang := row.(*types.Language)
		assert.Equal(t, "English", lang.Name)
		assert.Equal(t, "en", lang.Code)
		assert.Equal(t, uint64(95), lang.Version)

		entity, err := store.GetClassEntity("7")
		require.NoError(t, err)
		assert.Equal(t, uint64(95), entity.Version, "index row version follows the mutation")
	})

	t.Run("unknown class is silently dropped", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDUnknown, "5", 50)

		outcome := attachSchema(t, d, "5", 55, []types.RawValue{{Value: "x"}})
		assert.Equal(t, types.OutcomeDropped, outcome)

		// The entity stays schema-unset; no typed row in any table.
		counts, err := store.ClassCounts()
		require.NoError(t, err)
		for class, n := range counts {
			assert.Zero(t, n, "class %s", class)
		}
	})

	t.Run("missing entity is silently dropped", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		outcome := attachSchema(t, d, "404", 55, []types.RawValue{{Value: "x"}})
		assert.Equal(t, types.OutcomeDropped, outcome)
	})

	t.Run("dangling reference drops the event and leaves the store unchanged", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDVideo, "10", 100)

		// store has no Channel "42"
		outcome := attachSchema(t, d, "10", 101, []types.RawValue{
			{Ref: &types.RawRef{Target: "42", Existing: true}},
		})
		assert.Equal(t, types.OutcomeDropped, outcome)

		ok, err := store.HasRow(types.ClassVideo, "10")
		require.NoError(t, err)
		assert.False(t, ok, "video row must never be created")

		entity, err := store.GetClassEntity("10")
		require.NoError(t, err)
		assert.Equal(t, uint64(100), entity.Version, "index row untouched")
	})

	t.Run("batch-local tag on a standalone event is dropped", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDChannel, "1", 10)
		attachSchema(t, d, "1", 10, []types.RawValue{{Value: "alice"}})
		createEntity(t, d, classIDVideo, "2", 11)

		// Standalone events have no batch context, so existing=false can
		// never resolve even though the channel row exists.
		outcome := attachSchema(t, d, "2", 11, []types.RawValue{
			{Ref: &types.RawRef{Target: "1", Existing: false}},
		})
		assert.Equal(t, types.OutcomeDropped, outcome)

		ok, err := store.HasRow(types.ClassVideo, "2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("resolvable reference succeeds", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDChannel, "1", 10)
		require.Equal(t, types.OutcomeApplied,
			attachSchema(t, d, "1", 10, []types.RawValue{{Value: "alice"}}))
		createEntity(t, d, classIDVideo, "2", 11)

		outcome := attachSchema(t, d, "2", 12, []types.RawValue{
			{Ref: &types.RawRef{Target: "1", Existing: true}},
			{},
			{Value: "First upload"},
		})
		assert.Equal(t, types.OutcomeApplied, outcome)

		row, err := store.GetRow(types.ClassVideo, "2")
		require.NoError(t, err)
		video := row.(*types.Video)
		assert.Equal(t, "1", video.Channel)
		assert.Equal(t, "First upload", video.Title)
	})
}

func TestPropertyValuesUpdated(t *testing.T) {
	setupVideo := func(t *testing.T) (*Dispatcher, *sqlite.Backend) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDVideo, "10", 100)
		require.Equal(t, types.OutcomeApplied, attachSchema(t, d, "10", 100, []types.RawValue{
			{}, {}, {Value: "Original title"}, {Value: "Original description"},
		}))
		return d, store
	}

	t.Run("patches only present fields and bumps version", func(t *testing.T) {
		d, store := setupVideo(t)

		outcome, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 110},
			EntityID: "10",
			Values:   []types.RawValue{{}, {}, {Value: "New title"}},
		})
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		row, err := store.GetRow(types.ClassVideo, "10")
		require.NoError(t, err)
		video := row.(*types.Video)
		assert.Equal(t, "New title", video.Title)
		assert.Equal(t, "Original description", video.Description, "absent field untouched")
		assert.Equal(t, uint64(110), video.Version)
	})

	t.Run("replaying the same update is idempotent", func(t *testing.T) {
		d, store := setupVideo(t)

		update := types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 110},
			EntityID: "10",
			Values:   []types.RawValue{{}, {}, {Value: "New title"}},
		}
		_, err := d.Apply(update)
		require.NoError(t, err)
		first, err := store.GetRow(types.ClassVideo, "10")
		require.NoError(t, err)

		_, err = d.Apply(update)
		require.NoError(t, err)
		second, err := store.GetRow(types.ClassVideo, "10")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("unknown class is fatal", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		createEntity(t, d, classIDUnknown, "99", 100)

		_, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 101},
			EntityID: "99",
			Values:   []types.RawValue{{Value: "x"}},
		})
		assert.ErrorIs(t, err, types.ErrUnknownClass)
	})

	t.Run("missing entity is fatal", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		_, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 101},
			EntityID: "404",
			Values:   []types.RawValue{{Value: "x"}},
		})
		assert.ErrorIs(t, err, types.ErrUnknownClass)
	})

	t.Run("missing payload is fatal", func(t *testing.T) {
		d, _ := setupVideo(t)
		_, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 110},
			EntityID: "10",
		})
		assert.ErrorIs(t, err, types.ErrMissingExtrinsicData)
	})

	t.Run("dangling reference drops the update", func(t *testing.T) {
		d, store := setupVideo(t)

		outcome, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 110},
			EntityID: "10",
			Values: []types.RawValue{
				{Ref: &types.RawRef{Target: "42", Existing: true}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeDropped, outcome)

		row, err := store.GetRow(types.ClassVideo, "10")
		require.NoError(t, err)
		assert.Equal(t, uint64(100), row.RowVersion(), "store unchanged")
	})

	t.Run("schema-unset entity of known class is a silent no-op", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDVideo, "10", 100)

		// No typed row exists yet; the update must not crash.
		outcome, err := d.Apply(types.Event{
			Kind:     types.EventPropertyValuesUpdated,
			Block:    types.BlockRef{Height: 110},
			EntityID: "10",
			Values:   []types.RawValue{{}, {}, {Value: "x"}},
		})
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		ok, err := store.HasRow(types.ClassVideo, "10")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEntityRemoved(t *testing.T) {
	t.Run("deletes typed row and index row together", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDLanguage, "7", 90)
		require.Equal(t, types.OutcomeApplied,
			attachSchema(t, d, "7", 90, []types.RawValue{{Value: "English"}, {Value: "en"}}))

		outcome, err := d.Apply(types.Event{
			Kind:     types.EventEntityRemoved,
			Block:    types.BlockRef{Height: 120},
			EntityID: "7",
		})
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		ok, err := store.HasRow(types.ClassLanguage, "7")
		require.NoError(t, err)
		assert.False(t, ok)
		_, err = store.GetClassEntity("7")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("schema-unset entity of known class removes only the index row", func(t *testing.T) {
		d, store := setupDispatcher(t)
		createEntity(t, d, classIDVideo, "10", 100)

		outcome, err := d.Apply(types.Event{
			Kind:     types.EventEntityRemoved,
			Block:    types.BlockRef{Height: 120},
			EntityID: "10",
		})
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		_, err = store.GetClassEntity("10")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("unknown class is fatal", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		createEntity(t, d, classIDUnknown, "5", 50)

		_, err := d.Apply(types.Event{
			Kind:     types.EventEntityRemoved,
			Block:    types.BlockRef{Height: 120},
			EntityID: "5",
		})
		assert.ErrorIs(t, err, types.ErrUnknownClass)
	})
}

func TestUnknownEventKind(t *testing.T) {
	d, _ := setupDispatcher(t)
	_, err := d.Apply(types.Event{Kind: "EntityOwnershipTransferred"})
	assert.ErrorIs(t, err, types.ErrUnknownEventKind)
}
