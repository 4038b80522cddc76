package checkpoint

import (
	"os"
	"path/filepath"
	"time"

	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/pkg/errors"
)

// persisted is the on-disk shape of the checkpoint file.
type persisted struct {
	LastRunAt string `json:"last_run_at"`
}

// Store persists the single "last successful run" timestamp. It is read
// once at the start of a pass and written once at the end; there are no
// concurrent writers.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted timestamp. A missing or malformed file is not
// an error: it yields the zero time, which makes the next pass scan
// everything.
func (s *Store) Load() (time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, errors.Wrapf(err, "failed to read checkpoint %s", s.path)
	}
	var p persisted
	if err := utils.Json.Unmarshal(data, &p); err != nil {
		utils.Log.Warnf("malformed checkpoint %s, starting from scratch: %v", s.path, err)
		return time.Time{}, nil
	}
	if p.LastRunAt == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, p.LastRunAt)
	if err != nil {
		utils.Log.Warnf("malformed checkpoint timestamp %q, starting from scratch: %v", p.LastRunAt, err)
		return time.Time{}, nil
	}
	return t, nil
}

// Save atomically overwrites the checkpoint with t.
func (s *Store) Save(t time.Time) error {
	data, err := utils.Json.Marshal(persisted{LastRunAt: t.UTC().Format(time.RFC3339)})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create checkpoint dir for %s", s.path)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write checkpoint %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, s.path), "failed to replace checkpoint %s", s.path)
}
