package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/driveguard/driveguard/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scan passes on an interval and expose the status API",
	Run: func(cmd *cobra.Command, args []string) {
		Init()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner, err := newRunner(ctx)
		if err != nil {
			utils.Log.Fatalf("%+v", err)
		}

		if !debugFlag {
			gin.SetMode(gin.ReleaseMode)
		}
		e := gin.New()
		e.Use(gin.Recovery())
		server.Init(e, runner)
		srv := &http.Server{Addr: fmt.Sprintf(":%d", conf.Conf.Port), Handler: e}
		go func() {
			utils.Log.Infof("status api listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				utils.Log.Errorf("status api stopped: %v", err)
			}
		}()

		interval := time.Duration(conf.Conf.ScanInterval) * time.Second
		utils.Log.Infof("scanning every %s", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := runner.Run(ctx); err != nil {
				utils.Log.Errorf("scan pass failed: %+v", err)
			}
			select {
			case <-ctx.Done():
				utils.Log.Infof("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return
			case <-ticker.C:
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(ServeCmd)
}
