package gdrive

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/driveguard/driveguard/drivers/base"
	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/internal/driver"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const apiBase = "https://www.googleapis.com/drive/v3"

var driveScopes = []string{"https://www.googleapis.com/auth/drive"}

// GoogleDrive talks to the Drive v3 REST API. One instance is shared by all
// scan workers.
type GoogleDrive struct {
	cfg    conf.DriveConfig
	client *resty.Client
	api    string
	ts     oauth2.TokenSource

	tokenMu         sync.Mutex
	lastAccessToken string

	folderMu sync.Mutex
	folders  map[string]string
}

func NewDriver(cfg conf.DriveConfig) *GoogleDrive {
	return &GoogleDrive{
		cfg:     cfg,
		client:  base.NewRestyClient(),
		api:     apiBase,
		folders: make(map[string]string),
	}
}

// Init builds the token source from the cached token file or the configured
// refresh token, then exchanges once to fail fast on dead credentials.
func (d *GoogleDrive) Init(ctx context.Context) error {
	oc := &oauth2.Config{
		ClientID:     d.cfg.ClientID,
		ClientSecret: d.cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       driveScopes,
	}
	tok, err := loadToken(d.cfg.TokenFile)
	if err != nil {
		if d.cfg.RefreshToken == "" {
			return errors.New("no cached drive token and no refresh token configured")
		}
		tok = &oauth2.Token{RefreshToken: d.cfg.RefreshToken}
	}
	d.ts = oc.TokenSource(ctx, tok)
	if _, err := d.token(); err != nil {
		return err
	}
	return nil
}

func (d *GoogleDrive) ListChangedSince(ctx context.Context, since time.Time, excludeFolderIDs []string) ([]model.FileRecord, error) {
	query := buildListQuery(since, excludeFolderIDs)
	var records []model.FileRecord
	pageToken := ""
	for {
		var resp FilesResp
		err := d.request(ctx, "/files", http.MethodGet, func(req *resty.Request) {
			req.SetQueryParams(map[string]string{
				"q":        query,
				"pageSize": "1000", // maximum the Drive API supports
				"fields":   "nextPageToken, files(id, name, mimeType, size, parents)",
			})
			if pageToken != "" {
				req.SetQueryParam("pageToken", pageToken)
			}
		}, &resp)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list drive files")
		}
		for _, f := range resp.Files {
			rec, ok := f.record()
			if !ok {
				utils.Log.Infof("[gdrive] skipping %q: no size reported, most likely a shared file not owned by this account", f.Name)
				continue
			}
			records = append(records, rec)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return records, nil
}

func (d *GoogleDrive) Download(ctx context.Context, fileID string, limit int64) ([]byte, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	res, err := d.client.R().SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetQueryParam("alt", "media").
		SetDoNotParseResponse(true).
		Get(d.api + "/files/" + fileID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download file %s", fileID)
	}
	body := res.RawBody()
	defer body.Close()
	if res.IsError() {
		return nil, errors.Errorf("failed to download file %s: %s", fileID, res.Status())
	}
	// The caller already rejected oversized files by metadata; the cap here
	// guards against the size being stale.
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", fileID)
	}
	if int64(len(data)) > limit {
		return nil, errors.Errorf("file %s exceeds the %d byte download cap", fileID, limit)
	}
	return data, nil
}

func (d *GoogleDrive) EnsureFolder(ctx context.Context, name string) (string, error) {
	d.folderMu.Lock()
	defer d.folderMu.Unlock()
	if id, ok := d.folders[name]; ok {
		return id, nil
	}
	id, err := d.findFolder(ctx, name)
	if err != nil {
		return "", err
	}
	if id == "" {
		var created File
		err = d.request(ctx, "/files", http.MethodPost, func(req *resty.Request) {
			req.SetQueryParam("fields", "id")
			req.SetBody(base.Json{
				"name":     name,
				"mimeType": folderMimeType,
			})
		}, &created)
		if err != nil {
			// Another run may have created it in between; a second lookup
			// turns that race into success.
			if retryID, retryErr := d.findFolder(ctx, name); retryErr == nil && retryID != "" {
				d.folders[name] = retryID
				return retryID, nil
			}
			return "", errors.Wrapf(err, "failed to create folder %q", name)
		}
		utils.Log.Infof("[gdrive] created folder %q (%s)", name, created.ID)
		id = created.ID
	}
	d.folders[name] = id
	return id, nil
}

func (d *GoogleDrive) findFolder(ctx context.Context, name string) (string, error) {
	var resp FilesResp
	err := d.request(ctx, "/files", http.MethodGet, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"q":      buildFolderQuery(name),
			"fields": "files(id)",
		})
	}, &resp)
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up folder %q", name)
	}
	if len(resp.Files) == 0 {
		return "", nil
	}
	return resp.Files[0].ID, nil
}

func (d *GoogleDrive) Move(ctx context.Context, fileID string, folderID string) error {
	var cur File
	err := d.request(ctx, "/files/"+fileID, http.MethodGet, func(req *resty.Request) {
		req.SetQueryParam("fields", "parents")
	}, &cur)
	if err != nil {
		return errors.Wrapf(err, "failed to read parents of file %s", fileID)
	}
	if utils.SliceContains(cur.Parents, folderID) {
		// already in the target folder, e.g. a re-run over a quarantined file
		return nil
	}
	err = d.request(ctx, "/files/"+fileID, http.MethodPatch, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"addParents":    folderID,
			"removeParents": strings.Join(cur.Parents, ","),
			"fields":        "id, parents",
		})
	}, nil)
	return errors.Wrapf(err, "failed to move file %s", fileID)
}

var _ driver.FileSource = (*GoogleDrive)(nil)
