// Package detect is a minimal client for a detection-on-demand style
// malware scanning API: submit file bytes, get back a report ID, poll the
// report until the engine reaches a verdict.
package detect

import (
	"bytes"
	"context"

	"github.com/driveguard/driveguard/drivers/base"
	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const authHeader = "feye-auth-key"

// Client is safe for concurrent use by multiple scan workers.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg conf.DetectionConfig) *Client {
	return &Client{
		client:  base.NewRestyClient(),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().SetContext(ctx).SetHeader(authHeader, c.apiKey)
}

// SubmitFile uploads content for scanning and returns the report ID to poll.
func (c *Client) SubmitFile(ctx context.Context, name string, content []byte) (string, error) {
	var sr submitResp
	var e apiError
	res, err := c.r(ctx).
		SetFileReader("file", name, bytes.NewReader(content)).
		SetResult(&sr).
		SetError(&e).
		Post(c.baseURL + "/files")
	if err != nil {
		return "", errors.Wrapf(err, "failed to submit %q", name)
	}
	if res.IsError() {
		return "", errors.Errorf("detection api rejected %q: %s: %s", name, res.Status(), e.Message)
	}
	if sr.Status != "success" || sr.ReportID == "" {
		return "", errors.Errorf("detection api returned status %q for %q", sr.Status, name)
	}
	return sr.ReportID, nil
}

// GetReport fetches the current state of a report.
func (c *Client) GetReport(ctx context.Context, reportID string) (*Report, error) {
	var report Report
	var e apiError
	res, err := c.r(ctx).
		SetResult(&report).
		SetError(&e).
		Get(c.baseURL + "/reports/" + reportID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch report %s", reportID)
	}
	if res.IsError() {
		return nil, errors.Errorf("detection api error for report %s: %s: %s", reportID, res.Status(), e.Message)
	}
	return &report, nil
}

// CheckReport returns the verdict for a report handle.
func (c *Client) CheckReport(ctx context.Context, reportID string) (model.Verdict, error) {
	report, err := c.GetReport(ctx, reportID)
	if err != nil {
		return model.VerdictError, err
	}
	return report.Verdict(), nil
}
