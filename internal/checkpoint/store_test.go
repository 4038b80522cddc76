package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "a missing checkpoint means scan everything")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
	want := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestLoadMalformedFileFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	got, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestLoadMalformedTimestampFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_run_at":"yesterday"}`), 0o600))

	got, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
	require.NoError(t, store.Save(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	want := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestSaveCreatesParentDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "dir", "checkpoint.json"))
	require.NoError(t, store.Save(time.Now()))
}
