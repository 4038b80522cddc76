package bootstrap

import (
	"io"
	"os"

	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// InitLog applies level and rotating file output to the shared logger.
func InitLog(debug bool) {
	if debug {
		utils.Log.SetLevel(logrus.DebugLevel)
		utils.Log.SetReportCaller(true)
	} else {
		utils.Log.SetLevel(logrus.InfoLevel)
	}
	logCfg := conf.Conf.Log
	if logCfg.Enable && logCfg.Name != "" {
		writer := &lumberjack.Logger{
			Filename:   logCfg.Name,
			MaxSize:    logCfg.MaxSize,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAge,
			Compress:   logCfg.Compress,
		}
		utils.Log.SetOutput(io.MultiWriter(os.Stderr, writer))
	}
	utils.Log.Debugf("log initialized")
}
