package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInfoLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Info("Test message: %s", "info")
	output := buf.String()

	if !strings.Contains(output, "Test message: info") {
		t.Errorf("Expected log to contain 'Test message: info', got: %s", output)
	}
}

func TestInfoTagged(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	InfoTagged([]string{"Drive", "folder123"}, "Test message")
	output := buf.String()

	if !strings.Contains(output, "[Drive][folder123]") {
		t.Errorf("Expected log to contain tags, got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected log to contain message, got: %s", output)
	}
}

func TestWarningLevelLabel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Warning("disk almost full")
	output := buf.String()

	if !strings.Contains(strings.ToLower(output), "warn") {
		t.Errorf("Expected warning level marker, got: %s", output)
	}
	if !strings.Contains(output, "disk almost full") {
		t.Errorf("Expected log to contain message, got: %s", output)
	}
}

func TestDebugHiddenByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	SetVerbose(false)
	Debug("This should not appear")
	if buf.Len() > 0 {
		t.Error("Debug logged when verbose mode was off")
	}

	SetVerbose(true)
	Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("Expected debug message in verbose mode, got: %s", buf.String())
	}
	SetVerbose(false)
}
