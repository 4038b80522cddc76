package conf

import "path/filepath"

type DriveConfig struct {
	ClientID     string `json:"client_id" env:"GDRIVE_CLIENT_ID"`
	ClientSecret string `json:"client_secret" env:"GDRIVE_CLIENT_SECRET"`
	RefreshToken string `json:"refresh_token" env:"GDRIVE_REFRESH_TOKEN"`
	// TokenFile caches the last access token between runs.
	TokenFile string `json:"token_file" env:"GDRIVE_TOKEN_FILE"`
}

type DetectionConfig struct {
	BaseURL string `json:"base_url" env:"DOD_BASE_URL"`
	APIKey  string `json:"api_key" env:"DOD_API_KEY"`
}

type TasksConfig struct {
	// Workers is the scan pool size. Values <= 1 select the sequential
	// path. Be careful how high this goes: both vendor APIs rate limit,
	// and the only knob against that is fewer workers.
	Workers  int `json:"workers" env:"WORKER_THREADS"`
	MaxRetry int `json:"max_retry" env:"SCAN_TASK_MAX_RETRY"`
}

type LogConfig struct {
	Enable     bool   `json:"enable" env:"LOG_ENABLE"`
	Name       string `json:"name" env:"LOG_NAME"`
	MaxSize    int    `json:"max_size" env:"LOG_MAX_SIZE"`
	MaxBackups int    `json:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAge     int    `json:"max_age" env:"LOG_MAX_AGE"`
	Compress   bool   `json:"compress" env:"LOG_COMPRESS"`
}

type Config struct {
	// ReportRetryTime is the wait in seconds between polls of a pending
	// detection report.
	ReportRetryTime int `json:"report_retry_time" env:"REPORT_RETRY_TIME"`
	// MaxReportChecks bounds the poll loop; a report still pending after
	// this many checks counts as a verdict timeout.
	MaxReportChecks int `json:"max_report_checks" env:"MAX_REPORT_CHECKS"`
	// FileSizeLimit is the byte cap for download and submission. Files
	// larger than this are skipped without any network calls.
	FileSizeLimit        int64  `json:"file_size_limit" env:"DOD_FILE_SIZE_LIMIT"`
	QuarantineFolderName string `json:"quarantine_folder_name" env:"QUARANTINE_FOLDER_NAME"`
	// ScanInterval is the pause in seconds between passes in serve mode.
	ScanInterval   int    `json:"scan_interval" env:"SCAN_INTERVAL"`
	Port           int    `json:"port" env:"PORT"`
	CheckpointFile string `json:"checkpoint_file" env:"CHECKPOINT_FILE"`

	Drive     DriveConfig     `json:"drive"`
	Detection DetectionConfig `json:"detection"`
	Tasks     TasksConfig     `json:"tasks"`
	Log       LogConfig       `json:"log"`
}

// DefaultConfig returns the stock settings: 5s report polls, a 32 MB (SI)
// size cap and a folder named Quarantine.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		ReportRetryTime:      5,
		MaxReportChecks:      120,
		FileSizeLimit:        32000000,
		QuarantineFolderName: "Quarantine",
		ScanInterval:         300,
		Port:                 8088,
		CheckpointFile:       filepath.Join(dataDir, "checkpoint.json"),
		Drive: DriveConfig{
			TokenFile: filepath.Join(dataDir, "token.json"),
		},
		Detection: DetectionConfig{
			BaseURL: "https://feapi.marketplace.apis.fireeye.com",
		},
		Tasks: TasksConfig{
			Workers: 5,
		},
		Log: LogConfig{
			Enable:     true,
			Name:       filepath.Join(dataDir, "log", "driveguard.log"),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
		},
	}
}
