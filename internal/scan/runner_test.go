package scan

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenListTeam/tache"
	"github.com/driveguard/driveguard/internal/checkpoint"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, source *fakeSource, detector *fakeDetector, workers int) (*Runner, *checkpoint.Store) {
	t.Helper()
	store := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
	orch := NewOrchestrator(source, detector, 1000, time.Millisecond, 10, "Quarantine")
	var manager *tache.Manager[*ScanTask]
	if workers > 1 {
		manager = tache.NewManager[*ScanTask](tache.WithWorks(workers))
	}
	if manager != nil {
		return NewRunner(source, orch, store, manager, workers, "Quarantine"), store
	}
	return NewRunner(source, orch, store, nil, workers, "Quarantine"), store
}

func TestRunSequentialPass(t *testing.T) {
	files := []model.FileRecord{
		file("f1", 10), file("f2", 10), file("f3", 10), file("f4", 10), file("f5", 10),
	}
	source := newFakeSource(files...)
	source.downloadErr["f2"] = errors.New("network error")
	detector := newFakeDetector()
	runner, store := newTestRunner(t, source, detector, 1)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Clean)
	assert.Equal(t, 1, summary.Failed, "one download failure must not touch the other files")
	assert.Zero(t, summary.Quarantined)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.False(t, saved.IsZero(), "checkpoint must advance after the pass")
	assert.False(t, saved.After(summary.StartedAt.Add(time.Second)), "checkpoint must not advance past the pass start")
}

func TestRunExcludesQuarantineFolderFromListing(t *testing.T) {
	source := newFakeSource(file("f1", 10))
	detector := newFakeDetector()
	runner, _ := newTestRunner(t, source, detector, 1)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testFolderID}, source.listExcluded)
}

func TestRunPoolPass(t *testing.T) {
	var files []model.FileRecord
	for _, id := range []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9"} {
		files = append(files, file(id, 10))
	}
	source := newFakeSource(files...)
	detector := newFakeDetector()
	detector.script("f3.bin", model.VerdictPending, model.VerdictMalicious)
	runner, store := newTestRunner(t, source, detector, 3)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Total, "every file must produce a result")
	assert.Equal(t, 9, summary.Clean)
	assert.Equal(t, 1, summary.Quarantined)

	for id, calls := range source.downloadCalls {
		assert.Equalf(t, 1, calls, "file %s must be processed exactly once", id)
	}

	saved, err := store.Load()
	require.NoError(t, err)
	assert.False(t, saved.IsZero(), "checkpoint advances only after all workers finished")
}

func TestRunPoolPassFailureIsolation(t *testing.T) {
	var files []model.FileRecord
	for _, id := range []string{"f1", "f2", "f3", "f4", "f5"} {
		files = append(files, file(id, 10))
	}
	source := newFakeSource(files...)
	source.downloadErr["f2"] = errors.New("boom")
	detector := newFakeDetector()
	runner, _ := newTestRunner(t, source, detector, 3)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 4, summary.Clean)
}

func TestRunSkipsOversizedWithoutNetwork(t *testing.T) {
	source := newFakeSource(file("huge", 5000))
	detector := newFakeDetector()
	runner, _ := newTestRunner(t, source, detector, 1)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, detector.submitCalls)
	assert.Empty(t, source.downloadCalls)
}

func TestRunRejectsOverlappingPasses(t *testing.T) {
	source := newFakeSource()
	detector := newFakeDetector()
	runner, _ := newTestRunner(t, source, detector, 1)

	runner.mu.Lock()
	runner.running = true
	runner.mu.Unlock()
	_, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrPassInProgress)
}
