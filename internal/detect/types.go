package detect

import "github.com/driveguard/driveguard/internal/model"

const statusDone = "DONE"

type submitResp struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
	Message  string `json:"message,omitempty"`
}

// Report is a detection report as returned by the /reports endpoint.
type Report struct {
	ReportID      string `json:"report_id"`
	OverallStatus string `json:"overall_status"`
	IsMalicious   bool   `json:"is_malicious"`
	FileName      string `json:"file_name,omitempty"`
	MD5           string `json:"md5,omitempty"`
}

// Verdict collapses the report into the pipeline's verdict model: any
// status other than DONE means the engine is still working.
func (r *Report) Verdict() model.Verdict {
	if r.OverallStatus != statusDone {
		return model.VerdictPending
	}
	if r.IsMalicious {
		return model.VerdictMalicious
	}
	return model.VerdictClean
}

type apiError struct {
	Message string `json:"message"`
}
