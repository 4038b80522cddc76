package gdrive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	since := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	got := buildListQuery(since, []string{"folder-1"})
	assert.Equal(t,
		"mimeType != 'application/vnd.google-apps.folder' and trashed = false"+
			" and not 'folder-1' in parents"+
			" and createdTime > '2024-05-01T08:00:00Z'",
		got)
}

func TestBuildListQueryZeroSince(t *testing.T) {
	got := buildListQuery(time.Time{}, nil)
	assert.NotContains(t, got, "createdTime", "a zero checkpoint lists all files")
	assert.Contains(t, got, "trashed = false")
}

func TestBuildListQuerySkipsEmptyExclusions(t *testing.T) {
	got := buildListQuery(time.Time{}, []string{""})
	assert.NotContains(t, got, "in parents")
}

func TestBuildFolderQueryEscaping(t *testing.T) {
	got := buildFolderQuery(`it's a "trap"`)
	assert.Contains(t, got, `name = 'it\'s a "trap"'`)
}

func TestEscapeQueryTerm(t *testing.T) {
	assert.Equal(t, `a\\b\'c`, escapeQueryTerm(`a\b'c`))
}
