package cmd

import (
	"context"
	"time"

	"github.com/driveguard/driveguard/drivers/gdrive"
	"github.com/driveguard/driveguard/internal/checkpoint"
	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/internal/detect"
	"github.com/driveguard/driveguard/internal/scan"
	"github.com/pkg/errors"
)

// newRunner assembles the pass runner from the loaded configuration. A
// failure here is a bootstrap failure: nothing has been scanned yet and the
// whole run aborts.
func newRunner(ctx context.Context) (*scan.Runner, error) {
	source := gdrive.NewDriver(conf.Conf.Drive)
	if err := source.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize drive client")
	}
	detector := detect.NewClient(conf.Conf.Detection)
	store := checkpoint.NewStore(conf.Conf.CheckpointFile)
	orch := scan.NewOrchestrator(
		source,
		detector,
		conf.Conf.FileSizeLimit,
		time.Duration(conf.Conf.ReportRetryTime)*time.Second,
		uint(conf.Conf.MaxReportChecks),
		conf.Conf.QuarantineFolderName,
	)
	return scan.NewRunner(source, orch, store, scan.TaskManager, conf.Conf.Tasks.Workers, conf.Conf.QuarantineFolderName), nil
}
