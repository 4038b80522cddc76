package scan

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names the pipeline step a failure belongs to; it shows up in logs
// next to the file identity.
type Stage string

const (
	StageDownload   Stage = "download"
	StageSubmit     Stage = "submit"
	StageVerdict    Stage = "verdict"
	StageQuarantine Stage = "quarantine"
)

// ErrVerdictTimeout is returned when a report is still pending after the
// configured number of checks.
var ErrVerdictTimeout = errors.New("report still pending after maximum checks")

// errReportPending drives the poll loop; it never escapes awaitVerdict.
var errReportPending = errors.New("report pending")

// StageError ties a failure to the file and pipeline stage it happened in.
// All stage errors are local: they fail one file, never the pass.
type StageError struct {
	Stage  Stage
	FileID string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for file %s: %v", e.Stage, e.FileID, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Cause supports pkg/errors traversal.
func (e *StageError) Cause() error { return e.Err }

func newStageError(stage Stage, fileID string, err error) *StageError {
	return &StageError{Stage: stage, FileID: fileID, Err: err}
}
