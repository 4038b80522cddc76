package gdrive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/driveguard/driveguard/drivers/base"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

func (d *GoogleDrive) request(ctx context.Context, path, method string, callback base.ReqCallback, resp interface{}) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	req := d.client.R().SetContext(ctx).SetAuthToken(tok.AccessToken)
	var e Error
	req.SetError(&e)
	if callback != nil {
		callback(req)
	}
	if resp != nil {
		req.SetResult(resp)
	}
	res, err := req.Execute(method, d.api+path)
	if err != nil {
		return errors.WithStack(err)
	}
	if e.Error.Code != 0 {
		return errors.Errorf("drive api error %d: %s", e.Error.Code, e.Error.Message)
	}
	if res.IsError() {
		return errors.Errorf("drive api: unexpected status %s", res.Status())
	}
	return nil
}

// token fetches a valid access token from the token source, persisting it
// whenever the source rotated it. Safe for concurrent workers.
func (d *GoogleDrive) token() (*oauth2.Token, error) {
	if d.ts == nil {
		return nil, errors.New("drive client not initialized")
	}
	tok, err := d.ts.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain drive access token")
	}
	d.tokenMu.Lock()
	defer d.tokenMu.Unlock()
	if d.cfg.TokenFile != "" && tok.AccessToken != d.lastAccessToken {
		d.lastAccessToken = tok.AccessToken
		if err := saveToken(d.cfg.TokenFile, tok); err != nil {
			utils.Log.Warnf("[gdrive] failed to cache token: %v", err)
		}
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := utils.Json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	data, err := utils.Json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// escapeQueryTerm quotes a value for use inside a Drive query string.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// buildListQuery selects non-folders that are not trashed, sit outside the
// excluded folders and were created after the checkpoint.
func buildListQuery(since time.Time, excludeFolderIDs []string) string {
	query := fmt.Sprintf("mimeType != '%s' and trashed = false", folderMimeType)
	for _, id := range excludeFolderIDs {
		if id == "" {
			continue
		}
		query += fmt.Sprintf(" and not '%s' in parents", escapeQueryTerm(id))
	}
	if !since.IsZero() {
		query += fmt.Sprintf(" and createdTime > '%s'", since.UTC().Format(time.RFC3339))
	}
	return query
}

func buildFolderQuery(name string) string {
	return fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false",
		folderMimeType, escapeQueryTerm(name))
}
