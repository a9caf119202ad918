// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log = logrus.New()

var (
	fileSink        *lumberjack.Logger
	exitHandlerOnce sync.Once
)

// Init initializes the global logger based on application configuration.
// Output goes to stdout and, unless cfg.LogFile is empty, to a rotating file.
// The file is also closed when Fatal exits the process.
func Init(cfg *config.AppConfig) {
	exitHandlerOnce.Do(func() {
		logrus.RegisterExitHandler(func() { _ = Close() })
	})

	var out io.Writer = os.Stdout
	fileSink = nil
	if cfg.LogFile != "" {
		fileSink = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, fileSink)
	}
	Log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
}

// Named returns an entry tagged with the component name.
func Named(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

// Close flushes and closes the log file, if any.
func Close() error {
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}
