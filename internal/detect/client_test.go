package detect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(conf.DetectionConfig{BaseURL: srv.URL, APIKey: "test-key"})
	return c, srv
}

func TestSubmitFile(t *testing.T) {
	var gotKey, gotFileName string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/files", r.URL.Path)
		gotKey = r.Header.Get("feye-auth-key")
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFileName = header.Filename
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","report_id":"rep-42"}`))
	}))
	defer srv.Close()

	id, err := c.SubmitFile(context.Background(), "sample.exe", []byte("MZ..."))
	require.NoError(t, err)
	assert.Equal(t, "rep-42", id)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "sample.exe", gotFileName)
}

func TestSubmitFileRejected(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	_, err := c.SubmitFile(context.Background(), "sample.exe", []byte("MZ..."))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSubmitFileNonSuccessStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"failed"}`))
	}))
	defer srv.Close()

	_, err := c.SubmitFile(context.Background(), "sample.exe", nil)
	require.Error(t, err)
}

func TestCheckReportVerdicts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.Verdict
	}{
		{"still running", `{"report_id":"r","overall_status":"RUNNING"}`, model.VerdictPending},
		{"done clean", `{"report_id":"r","overall_status":"DONE","is_malicious":false}`, model.VerdictClean},
		{"done malicious", `{"report_id":"r","overall_status":"DONE","is_malicious":true}`, model.VerdictMalicious},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/reports/r", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			got, err := c.CheckReport(context.Background(), "r")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckReportAPIError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"report not found"}`))
	}))
	defer srv.Close()

	got, err := c.CheckReport(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, model.VerdictError, got)
	assert.Contains(t, err.Error(), "report not found")
}

func TestReportVerdictMapping(t *testing.T) {
	assert.Equal(t, model.VerdictPending, (&Report{OverallStatus: "IN_PROGRESS"}).Verdict())
	assert.Equal(t, model.VerdictClean, (&Report{OverallStatus: statusDone}).Verdict())
	assert.Equal(t, model.VerdictMalicious, (&Report{OverallStatus: statusDone, IsMalicious: true}).Verdict())
}
