package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger instance. It must be initialized with Init()
// before any other package uses it.
var Log *logrus.Logger

func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(logrus.InfoLevel)
}
