package driver

import (
	"context"
	"time"

	"github.com/driveguard/driveguard/internal/model"
)

// FileSource is the storage side of the scan pipeline. Implementations must
// be safe for concurrent use by multiple scan workers.
type FileSource interface {
	// Init verifies credentials and prepares the client for use.
	Init(ctx context.Context) error
	// ListChangedSince returns every non-folder file created after since,
	// excluding trashed files and files parented under excludeFolderIDs.
	// A zero since lists everything.
	ListChangedSince(ctx context.Context, since time.Time, excludeFolderIDs []string) ([]model.FileRecord, error)
	// Download fetches file content, failing if it exceeds limit bytes.
	Download(ctx context.Context, fileID string, limit int64) ([]byte, error)
	// EnsureFolder finds a folder by name, creating it when absent, and
	// returns its ID. Concurrent callers may race; "already exists" is
	// success.
	EnsureFolder(ctx context.Context, name string) (string, error)
	// Move re-parents a file into the given folder. Moving a file that is
	// already there is a no-op success.
	Move(ctx context.Context, fileID string, folderID string) error
}
