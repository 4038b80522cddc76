package handles

import (
	"context"
	"time"

	"github.com/driveguard/driveguard/internal/scan"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/driveguard/driveguard/server/common"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var runner *scan.Runner

// SetRunner hands the pass runner to the handlers; called once at startup.
func SetRunner(r *scan.Runner) {
	runner = r
}

// RunScan kicks off a pass in the background unless one is in flight.
func RunScan(c *gin.Context) {
	if runner.Running() {
		common.ErrorResp(c, scan.ErrPassInProgress, 409, true)
		return
	}
	go func() {
		if _, err := runner.Run(context.Background()); err != nil && !errors.Is(err, scan.ErrPassInProgress) {
			utils.Log.Errorf("manual scan pass failed: %+v", err)
		}
	}()
	common.SuccessResp(c)
}

// ScanSummary returns the outcome counts of the last completed pass.
func ScanSummary(c *gin.Context) {
	summary := runner.LastSummary()
	if summary == nil {
		common.ErrorStrResp(c, "no pass has completed yet", 404)
		return
	}
	common.SuccessResp(c, summary)
}

// ScanCheckpoint returns the persisted last-run timestamp.
func ScanCheckpoint(c *gin.Context) {
	t, err := runner.Checkpoint()
	if err != nil {
		common.ErrorResp(c, err, 500)
		return
	}
	resp := gin.H{"last_run_at": nil}
	if !t.IsZero() {
		resp["last_run_at"] = t.UTC().Format(time.RFC3339)
	}
	common.SuccessResp(c, resp)
}
