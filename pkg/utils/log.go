package utils

import (
	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Bootstrap reconfigures level, format and
// output; until then it logs to stderr with sane defaults.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}
