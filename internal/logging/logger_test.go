package logging

import (
	"os"
	"testing"
)

func TestNewFile_CreatesDirAndLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	// Write once; just ensuring no panic / basic functionality.
	log.Info("test_message_from_logging_test")
}

func TestNewConsole_Levels(t *testing.T) {
	if NewConsole(false).Core().Enabled(-1) { // -1 is debug
		t.Fatalf("non-verbose logger should not enable debug")
	}
	if !NewConsole(true).Core().Enabled(-1) {
		t.Fatalf("verbose logger should enable debug")
	}
}
