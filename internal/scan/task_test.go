package scan

import (
	"context"
	"sync"
	"testing"

	"github.com/driveguard/driveguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask(source *fakeSource, detector *fakeDetector, f model.FileRecord) *ScanTask {
	task := &ScanTask{File: f, orchestrator: newTestOrchestrator(source, detector, 5)}
	task.SetCtx(context.Background())
	return task
}

func TestScanTaskRunRecordsOutcome(t *testing.T) {
	f := file("a", 10)
	task := newTestTask(newFakeSource(f), newFakeDetector(), f)

	require.NoError(t, task.Run())
	assert.Equal(t, model.ResultScannedClean, task.Result())
	assert.Equal(t, string(model.ResultScannedClean), task.GetStatus())
	started, finished := task.Times()
	require.NotNil(t, started)
	require.NotNil(t, finished)
	assert.False(t, finished.Before(*started))
}

func TestScanTaskRunPropagatesFailure(t *testing.T) {
	f := file("a", 10)
	source := newFakeSource(f)
	source.downloadErr["a"] = assert.AnError
	task := newTestTask(source, newFakeDetector(), f)

	require.Error(t, task.Run())
	assert.Equal(t, model.ResultFailed, task.Result())
}

func TestScanTaskStateReadableWhileRunning(t *testing.T) {
	f := file("a", 10)
	task := newTestTask(newFakeSource(f), newFakeDetector(), f)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = task.Run()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = task.GetStatus()
			_ = task.Result()
			_, _ = task.Times()
		}
	}()
	wg.Wait()

	assert.Equal(t, model.ResultScannedClean, task.Result())
}

func TestScanTaskName(t *testing.T) {
	task := &ScanTask{File: model.FileRecord{ID: "f1", Name: "a.bin"}}
	assert.Equal(t, "scan [a.bin](f1)", task.GetName())
}
