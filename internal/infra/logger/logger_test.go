package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestInit_WritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")
	Init(&config.AppConfig{LogLevel: "debug", Environment: "development", LogFile: path})
	defer func() {
		_ = Close()
		Log.SetOutput(os.Stdout)
	}()

	if Log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("want debug level, got %s", Log.GetLevel())
	}

	Named("test").Info("log_line_from_test")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "log_line_from_test") || !strings.Contains(string(b), "component=test") {
		t.Fatalf("unexpected log contents: %q", b)
	}
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	Init(&config.AppConfig{LogLevel: "loud", Environment: "production"})
	defer Log.SetOutput(os.Stdout)

	if Log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("want info level, got %s", Log.GetLevel())
	}
	if _, ok := Log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("want JSON formatter in production, got %T", Log.Formatter)
	}
}

func TestFatal_ClosesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")
	Init(&config.AppConfig{LogLevel: "info", Environment: "development", LogFile: path})

	exitCode := -1
	Log.ExitFunc = func(code int) { exitCode = code }
	defer func() {
		Log.ExitFunc = nil
		Log.SetOutput(os.Stdout)
	}()

	Named("main").Fatal("fatal_line_from_test")

	if exitCode != 1 {
		t.Fatalf("want exit code 1, got %d", exitCode)
	}
	if fileSink != nil {
		t.Fatalf("log file should be closed by the exit handler")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "fatal_line_from_test") {
		t.Fatalf("fatal line missing from log file: %q", b)
	}
}
