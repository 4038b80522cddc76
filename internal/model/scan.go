package model

import "time"

// Verdict is the detection API's classification of a submitted file.
// Pending is the only non-terminal state.
type Verdict string

const (
	VerdictPending   Verdict = "pending"
	VerdictClean     Verdict = "clean"
	VerdictMalicious Verdict = "malicious"
	VerdictError     Verdict = "error"
)

// Terminal reports whether the verdict ends the poll loop.
func (v Verdict) Terminal() bool {
	return v != VerdictPending
}

// RunResult is the per-file outcome of one trip through the scan pipeline.
type RunResult string

const (
	ResultScannedClean    RunResult = "scanned-clean"
	ResultQuarantined     RunResult = "quarantined"
	ResultSkippedTooLarge RunResult = "skipped-too-large"
	ResultFailed          RunResult = "failed"
)

// PassSummary aggregates RunResults for one full scan pass. It is kept in
// memory for reporting only, never persisted.
type PassSummary struct {
	PassID      string    `json:"pass_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Total       int       `json:"total"`
	Clean       int       `json:"clean"`
	Quarantined int       `json:"quarantined"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
}

// Count folds one result into the summary.
func (s *PassSummary) Count(r RunResult) {
	s.Total++
	switch r {
	case ResultScannedClean:
		s.Clean++
	case ResultQuarantined:
		s.Quarantined++
	case ResultSkippedTooLarge:
		s.Skipped++
	default:
		s.Failed++
	}
}
