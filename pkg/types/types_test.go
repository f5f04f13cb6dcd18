package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownClass(t *testing.T) {
	t.Run("every enumerated class is known", func(t *testing.T) {
		for _, class := range KnownClasses {
			assert.True(t, class.Known(), "class %s", class)
		}
	})

	t.Run("classes outside the enumeration are unknown", func(t *testing.T) {
		assert.False(t, KnownClass("CuratorGroup").Known())
		assert.False(t, KnownClass("").Known())
		assert.False(t, KnownClass("video").Known(), "class names are case sensitive")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/loom"},
		},
		{
			name:    "empty backend",
			config:  Config{DataDir: "/tmp/loom"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "applied", OutcomeApplied.String())
	assert.Equal(t, "dropped", OutcomeDropped.String())
	assert.Equal(t, "ignored", OutcomeIgnored.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestRawValueAbsent(t *testing.T) {
	assert.True(t, RawValue{}.Absent())
	assert.False(t, RawValue{Value: "x"}.Absent())
	assert.False(t, RawValue{Ref: &RawRef{Target: "7"}}.Absent())
}

func TestBagAccessors(t *testing.T) {
	bag := &Bag{
		Class: ClassVideo,
		Values: map[string]any{
			"title":    "First upload",
			"duration": int64(93),
			"isPublic": true,
		},
		Refs: map[string]Reference{
			"channel": {Target: "42", Existing: true},
		},
	}

	require.True(t, bag.Has("title"))
	require.True(t, bag.Has("channel"))
	assert.False(t, bag.Has("license"))

	assert.Equal(t, "First upload", bag.Text("title"))
	assert.Equal(t, int64(93), bag.Int("duration"))
	assert.True(t, bag.Bool("isPublic"))
	assert.Equal(t, "42", bag.RefTarget("channel"))

	// Absent properties yield zero values, not panics.
	assert.Equal(t, "", bag.Text("missing"))
	assert.Equal(t, int64(0), bag.Int("missing"))
	assert.False(t, bag.Bool("missing"))
	assert.Equal(t, "", bag.RefTarget("missing"))
}

func TestTypedRowMeta(t *testing.T) {
	var row TypedRow = &Channel{RowMeta: RowMeta{ID: "10"}}
	assert.Equal(t, ClassChannel, row.RowClass())
	assert.Equal(t, "10", row.RowID())
	assert.Equal(t, uint64(0), row.RowVersion())

	row.SetRowVersion(123)
	assert.Equal(t, uint64(123), row.RowVersion())
}
