package gdrive

import (
	"strconv"

	"github.com/driveguard/driveguard/internal/model"
)

const folderMimeType = "application/vnd.google-apps.folder"

// File is the subset of the Drive v3 file resource the scanner needs.
// Size comes back as a decimal string and is absent for files the account
// does not own (shared files), which the pipeline skips.
type File struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Size     string   `json:"size,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

// record converts a Drive file into a FileRecord. ok is false when the
// file reports no size and cannot be scanned.
func (f File) record() (model.FileRecord, bool) {
	if f.Size == "" {
		return model.FileRecord{}, false
	}
	size, err := strconv.ParseInt(f.Size, 10, 64)
	if err != nil {
		return model.FileRecord{}, false
	}
	return model.FileRecord{
		ID:       f.ID,
		Name:     f.Name,
		Size:     size,
		MimeType: f.MimeType,
		Parents:  f.Parents,
	}, true
}

type FilesResp struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []File `json:"files"`
}

// Error is the Drive API error envelope.
type Error struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
