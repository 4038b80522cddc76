package server

import (
	"github.com/driveguard/driveguard/internal/scan"
	"github.com/driveguard/driveguard/server/handles"
	"github.com/gin-gonic/gin"
)

// Init mounts the status API onto the engine.
func Init(e *gin.Engine, runner *scan.Runner) {
	handles.SetRunner(runner)
	api := e.Group("/api")
	handles.SetupTaskRoute(api.Group("/task"))
	g := api.Group("/scan")
	g.POST("/run", handles.RunScan)
	g.GET("/summary", handles.ScanSummary)
	g.GET("/checkpoint", handles.ScanCheckpoint)
}
