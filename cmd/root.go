package cmd

import (
	"os"

	"github.com/driveguard/driveguard/internal/bootstrap"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	debugFlag bool
)

var RootCmd = &cobra.Command{
	Use:   "driveguard",
	Short: "Scan a Google Drive account for malware",
	Long: `driveguard polls a Google Drive account for newly created files,
submits them to a detection-on-demand malware API and moves files with a
malicious verdict into a quarantine folder.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "data folder (config, token cache, checkpoint, logs)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// Init loads config and wires the shared pieces; every subcommand calls it
// first.
func Init() {
	if err := bootstrap.InitConfig(dataDir); err != nil {
		utils.Log.Fatalf("failed to load config: %+v", err)
	}
	bootstrap.InitLog(debugFlag)
	bootstrap.InitTaskManager()
}
