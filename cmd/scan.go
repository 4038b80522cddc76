package cmd

import (
	"context"

	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/spf13/cobra"
)

var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan pass and exit",
	Run: func(cmd *cobra.Command, args []string) {
		Init()
		ctx := context.Background()
		runner, err := newRunner(ctx)
		if err != nil {
			utils.Log.Fatalf("%+v", err)
		}
		if _, err := runner.Run(ctx); err != nil {
			utils.Log.Fatalf("scan pass failed: %+v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(ScanCmd)
}
