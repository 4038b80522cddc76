package scan

import (
	"context"
	"sync"
	"time"

	"github.com/driveguard/driveguard/internal/checkpoint"
	"github.com/driveguard/driveguard/internal/driver"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/driveguard/driveguard/internal/task"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrPassInProgress is returned when a pass is requested while one is
// already running; passes never overlap.
var ErrPassInProgress = errors.New("a scan pass is already running")

// Runner executes full scan passes: checkpoint → list → per-file pipeline →
// checkpoint. With a manager and workers > 1 the per-file work fans out over
// the pool, otherwise it runs strictly one file after another.
type Runner struct {
	source           driver.FileSource
	orch             *Orchestrator
	store            *checkpoint.Store
	manager          task.Manager[*ScanTask]
	workers          int
	quarantineFolder string

	mu          sync.Mutex
	running     bool
	lastSummary *model.PassSummary
}

func NewRunner(source driver.FileSource, orch *Orchestrator, store *checkpoint.Store, manager task.Manager[*ScanTask], workers int, quarantineFolder string) *Runner {
	return &Runner{
		source:           source,
		orch:             orch,
		store:            store,
		manager:          manager,
		workers:          workers,
		quarantineFolder: quarantineFolder,
	}
}

// Run executes one full pass. Listing or checkpoint failures abort before
// any per-file work; per-file failures only mark that file as failed. The
// checkpoint advances to the pass start time, and only after every file has
// reached a terminal outcome.
func (r *Runner) Run(ctx context.Context) (*model.PassSummary, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrPassInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	started := time.Now()
	summary := &model.PassSummary{PassID: uuid.NewString(), StartedAt: started}

	since, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	quarantineID, err := r.source.EnsureFolder(ctx, r.quarantineFolder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare quarantine folder")
	}
	files, err := r.source.ListChangedSince(ctx, since, []string{quarantineID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list changed files")
	}
	utils.Log.Infof("[pass %s] %d file(s) created since %s", summary.PassID, len(files), sinceLabel(since))

	for _, result := range r.runAll(ctx, files) {
		summary.Count(result)
	}
	summary.FinishedAt = time.Now()

	// Using the start time means files created mid-pass are picked up next
	// time instead of being skipped.
	if err := r.store.Save(started); err != nil {
		return summary, err
	}

	utils.Log.Infof("[pass %s] done in %s: %d clean, %d quarantined, %d skipped, %d failed",
		summary.PassID, summary.FinishedAt.Sub(started).Round(time.Millisecond),
		summary.Clean, summary.Quarantined, summary.Skipped, summary.Failed)
	r.mu.Lock()
	r.lastSummary = summary
	r.mu.Unlock()
	return summary, nil
}

// runAll applies the pipeline to every file and returns one result per file.
// Result order does not match input order in pool mode.
func (r *Runner) runAll(ctx context.Context, files []model.FileRecord) []model.RunResult {
	if r.manager == nil || r.workers <= 1 {
		results := make([]model.RunResult, 0, len(files))
		for _, f := range files {
			result, _ := r.orch.Process(ctx, f)
			results = append(results, result)
		}
		return results
	}

	tasks := make([]*ScanTask, 0, len(files))
	for _, f := range files {
		t := &ScanTask{File: f, orchestrator: r.orch}
		r.manager.Add(t)
		tasks = append(tasks, t)
	}
	r.waitAll(ctx, tasks)

	results := make([]model.RunResult, 0, len(tasks))
	for _, t := range tasks {
		result := t.Result()
		if result == "" {
			// never ran, e.g. canceled while queued
			result = model.ResultFailed
		}
		results = append(results, result)
	}
	return results
}

// waitAll blocks until every task has reached a terminal state.
func (r *Runner) waitAll(ctx context.Context, tasks []*ScanTask) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		done := 0
		for _, t := range tasks {
			if t.Done() {
				done++
			}
		}
		if done == len(tasks) {
			return
		}
		select {
		case <-ctx.Done():
			utils.Log.Warnf("context canceled with %d/%d task(s) still in flight", len(tasks)-done, len(tasks))
			return
		case <-ticker.C:
		}
	}
}

// LastSummary returns the most recent completed pass, if any.
func (r *Runner) LastSummary() *model.PassSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSummary
}

// Running reports whether a pass is currently executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Checkpoint exposes the persisted last-run timestamp.
func (r *Runner) Checkpoint() (time.Time, error) {
	return r.store.Load()
}

func sinceLabel(t time.Time) string {
	if t.IsZero() {
		return "the beginning"
	}
	return t.UTC().Format(time.RFC3339)
}
