package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, Dir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitDebugModeMirrorsToConsole(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	var console bytes.Buffer

	if err := Init(Config{Debug: true, Dir: configDir, Console: &console}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	Debug("streak recomputed", "habit", "h1", "current", 3)

	out := console.String()
	if !strings.Contains(out, "streak recomputed") {
		t.Errorf("expected debug message on console, got %q", out)
	}
	if !strings.Contains(out, "habit=h1") {
		t.Errorf("expected key/value pairs on console, got %q", out)
	}
}

func TestInitNormalModeIsSilentOnConsole(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	var console bytes.Buffer

	if err := Init(Config{Debug: false, Dir: configDir, Console: &console}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Warn("suspicious content", "field", "title")

	if console.Len() != 0 {
		t.Errorf("expected no console output outside debug mode, got %q", console.String())
	}
}

func TestInitLevelFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Close() })

	if err := Init(Config{Dir: dir, Level: "INFO"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := Logger.GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}

	if err := Init(Config{Dir: dir, Level: "error", Debug: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("debug must win over the configured level, got %v", got)
	}

	if err := Init(Config{Dir: dir, Level: "chatty"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestPathAndClose(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	want := filepath.Join(dir, "logs", "momentumx.log")
	if Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}

	Warn("habit archived", "id", "h1")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected the log file to exist: %v", err)
	}

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if Path() != "" || Logger != nil {
		t.Error("Close should reset the global logger")
	}
	Warn("after close")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWithUnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A regular file cannot host the logs directory
	if err := Init(Config{Dir: blocker}); err == nil {
		t.Error("expected error when config dir is a file")
	}
}
