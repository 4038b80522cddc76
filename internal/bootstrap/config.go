package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/pkg/errors"
)

// InitConfig loads config.json from the data dir (writing the defaults on
// first run) and overlays environment variables.
func InitConfig(dataDir string) error {
	cfg := conf.DefaultConfig(dataDir)
	configPath := filepath.Join(dataDir, "config.json")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := utils.Json.Unmarshal(data, cfg); err != nil {
			return errors.Wrapf(err, "failed to parse config %s", configPath)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create data dir %s", dataDir)
		}
		out, merr := utils.Json.MarshalIndent(cfg, "", "  ")
		if merr != nil {
			return errors.WithStack(merr)
		}
		if err := os.WriteFile(configPath, out, 0o600); err != nil {
			return errors.Wrapf(err, "failed to write default config %s", configPath)
		}
		utils.Log.Infof("wrote default config to %s", configPath)
	default:
		return errors.Wrapf(err, "failed to read config %s", configPath)
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Wrap(err, "failed to apply environment overrides")
	}
	normalize(cfg, dataDir)
	conf.Conf = cfg
	return nil
}

// normalize coerces out-of-range values back to usable defaults instead of
// failing the whole run over a bad knob.
func normalize(cfg *conf.Config, dataDir string) {
	def := conf.DefaultConfig(dataDir)
	if cfg.ReportRetryTime <= 0 {
		cfg.ReportRetryTime = def.ReportRetryTime
	}
	if cfg.MaxReportChecks <= 0 {
		cfg.MaxReportChecks = def.MaxReportChecks
	}
	if cfg.FileSizeLimit <= 0 {
		cfg.FileSizeLimit = def.FileSizeLimit
	}
	if cfg.QuarantineFolderName == "" {
		cfg.QuarantineFolderName = def.QuarantineFolderName
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = def.ScanInterval
	}
	if cfg.CheckpointFile == "" {
		cfg.CheckpointFile = def.CheckpointFile
	}
	if cfg.Tasks.Workers < 0 {
		cfg.Tasks.Workers = 0
	}
	if cfg.Tasks.MaxRetry < 0 {
		cfg.Tasks.MaxRetry = 0
	}
}
