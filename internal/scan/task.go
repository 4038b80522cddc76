package scan

import (
	"fmt"
	"sync"
	"time"

	"github.com/OpenListTeam/tache"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/driveguard/driveguard/internal/task"
)

// TaskManager runs ScanTasks across the configured worker pool. Set by
// bootstrap.InitTaskManager.
var TaskManager task.Manager[*ScanTask]

// ScanTask carries one file through the pipeline on a pool worker. The
// status, result and timestamps are written by the worker while the status
// API reads them, so access goes through the mutex.
type ScanTask struct {
	tache.Base
	File model.FileRecord

	orchestrator *Orchestrator

	mu         sync.Mutex
	status     string
	result     model.RunResult
	startedAt  *time.Time
	finishedAt *time.Time
}

func (t *ScanTask) GetName() string {
	return fmt.Sprintf("scan [%s](%s)", t.File.Name, t.File.ID)
}

// SetStatus records the human readable phase shown by the status API.
func (t *ScanTask) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

func (t *ScanTask) GetStatus() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the pipeline outcome, empty until the task has run.
func (t *ScanTask) Result() model.RunResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *ScanTask) setResult(r model.RunResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = r
}

// Times returns the start and finish timestamps, nil while unset.
func (t *ScanTask) Times() (started, finished *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt, t.finishedAt
}

func (t *ScanTask) begin() {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startedAt = &now
}

func (t *ScanTask) finish() {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finishedAt = &now
}

func (t *ScanTask) Run() error {
	t.begin()
	defer t.finish()
	t.SetStatus("scanning")
	result, err := t.orchestrator.Process(t.Ctx(), t.File)
	t.setResult(result)
	t.SetStatus(string(result))
	t.SetProgress(100)
	return err
}

var doneStates = []tache.State{
	tache.StateCanceled,
	tache.StateFailed,
	tache.StateSucceeded,
}

// Done reports whether the task has reached a terminal manager state.
func (t *ScanTask) Done() bool {
	state := t.GetState()
	for _, s := range doneStates {
		if state == s {
			return true
		}
	}
	return false
}
