// Package scan drives files through the submit → poll → act pipeline, either
// sequentially or across a fixed pool of workers.
package scan

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/driveguard/driveguard/internal/driver"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/pkg/errors"
)

// Detector is the malware-scanning side of the pipeline. Implementations
// must tolerate concurrent use.
type Detector interface {
	SubmitFile(ctx context.Context, name string, content []byte) (string, error)
	CheckReport(ctx context.Context, reportID string) (model.Verdict, error)
}

// Orchestrator runs a single file through the scan pipeline. One instance
// is shared by every worker; it holds no per-file state.
type Orchestrator struct {
	source           driver.FileSource
	detector         Detector
	sizeLimit        int64
	retryTime        time.Duration
	maxChecks        uint
	quarantineFolder string
}

func NewOrchestrator(source driver.FileSource, detector Detector, sizeLimit int64, retryTime time.Duration, maxChecks uint, quarantineFolder string) *Orchestrator {
	return &Orchestrator{
		source:           source,
		detector:         detector,
		sizeLimit:        sizeLimit,
		retryTime:        retryTime,
		maxChecks:        maxChecks,
		quarantineFolder: quarantineFolder,
	}
}

// Process takes one file from size check to final outcome. Every failure is
// logged and folded into ResultFailed; the returned error carries the stage
// detail for callers that track it, and is non-nil only on failure.
func (o *Orchestrator) Process(ctx context.Context, file model.FileRecord) (model.RunResult, error) {
	if file.Size > o.sizeLimit {
		utils.Log.Infof("[scan] skipping %q (%s): %d bytes is over the %d byte submission limit", file.Name, file.ID, file.Size, o.sizeLimit)
		return model.ResultSkippedTooLarge, nil
	}

	content, err := o.source.Download(ctx, file.ID, o.sizeLimit)
	if err != nil {
		return o.fail(StageDownload, file, err)
	}
	utils.Log.Debugf("[scan] downloaded %q (%s), %d bytes", file.Name, file.ID, len(content))

	reportID, err := o.detector.SubmitFile(ctx, file.Name, content)
	if err != nil {
		return o.fail(StageSubmit, file, err)
	}
	utils.Log.Infof("[scan] submitted %q (%s), report %s", file.Name, file.ID, reportID)

	verdict, err := o.awaitVerdict(ctx, reportID)
	if err != nil {
		return o.fail(StageVerdict, file, err)
	}

	if verdict == model.VerdictClean {
		utils.Log.Infof("[scan] %q (%s) is clean", file.Name, file.ID)
		return model.ResultScannedClean, nil
	}

	utils.Log.Warnf("[scan] %q (%s) is malicious, moving to %q", file.Name, file.ID, o.quarantineFolder)
	if err := o.quarantine(ctx, file); err != nil {
		return o.fail(StageQuarantine, file, err)
	}
	return model.ResultQuarantined, nil
}

// awaitVerdict polls the report at a fixed interval until it turns terminal,
// the engine reports an error, or maxChecks runs out.
func (o *Orchestrator) awaitVerdict(ctx context.Context, reportID string) (model.Verdict, error) {
	var verdict model.Verdict
	err := retry.Do(
		func() error {
			if utils.IsCanceled(ctx) {
				return retry.Unrecoverable(ctx.Err())
			}
			v, err := o.detector.CheckReport(ctx, reportID)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if v == model.VerdictError {
				return retry.Unrecoverable(errors.Errorf("detection engine reported an error for report %s", reportID))
			}
			if !v.Terminal() {
				return errReportPending
			}
			verdict = v
			return nil
		},
		retry.Attempts(o.maxChecks),
		retry.Delay(o.retryTime),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, errReportPending) {
			return "", errors.Wrapf(ErrVerdictTimeout, "report %s", reportID)
		}
		return "", err
	}
	return verdict, nil
}

// quarantine moves the file into the quarantine folder, creating the folder
// first when it does not exist yet.
func (o *Orchestrator) quarantine(ctx context.Context, file model.FileRecord) error {
	folderID, err := o.source.EnsureFolder(ctx, o.quarantineFolder)
	if err != nil {
		return err
	}
	return o.source.Move(ctx, file.ID, folderID)
}

func (o *Orchestrator) fail(stage Stage, file model.FileRecord, err error) (model.RunResult, error) {
	serr := newStageError(stage, file.ID, err)
	utils.Log.Errorf("[scan] %q: %+v", file.Name, serr)
	return model.ResultFailed, serr
}
