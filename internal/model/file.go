package model

// FileRecord is an immutable snapshot of a remote file taken at listing
// time. It may go stale if the file changes mid-run; that risk is accepted.
type FileRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Size     int64    `json:"size"`
	MimeType string   `json:"mime_type,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}
