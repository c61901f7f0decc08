package logging

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_DisabledByDefault(t *testing.T) {
	log, closer, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Error("Expected no log file when debug=false")
		closer.Close()
	}
	if log.Out != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", log.Out)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v", log.GetLevel())
	}
}

func TestNew_EnabledWithDebug(t *testing.T) {
	dir := t.TempDir()
	log, closer, err := New(Options{Debug: true, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("debug logger level = %v", log.GetLevel())
	}
	if log.Out == os.Stdout || log.Out == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}

	log.WithField("tick", 1).Info("Test log message")

	info, err := os.Stat(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestNew_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(logPath, make([]byte, MaxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	log, closer, err := New(Options{Debug: true, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	// The oversized file is rotated aside by the first write
	log.Info("after rotation")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != DefaultFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() > MaxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", MaxLogSize, info.Size())
	}
}

func TestNew_LevelAndFormat(t *testing.T) {
	t.Setenv(LevelEnv, "warn")
	log, _, err := New(Options{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("env override ignored: %v", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T", log.Formatter)
	}

	t.Setenv(LevelEnv, "nonsense")
	log, _, _ = New(Options{})
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("bad level should fall back to info, got %v", log.GetLevel())
	}
}
