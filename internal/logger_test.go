package internal

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelWarn {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelWarn", logLevel)
	}
}

func TestLogOutput_RespectsLevel(t *testing.T) {
	originalLevel := logLevel
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	}()

	SetLogLevel(LogLevelWarn)
	LogWarn("quota exceeded for %s", "rag.threads")
	LogInfo("should not appear")
	LogDebug("should not appear either")

	output := buf.String()
	if !strings.Contains(output, "[warn] quota exceeded for rag.threads") {
		t.Errorf("log output = %q, want the warning", output)
	}
	if strings.Contains(output, "should not appear") {
		t.Errorf("log output = %q, want info and debug suppressed", output)
	}
}

func TestLogLevels(t *testing.T) {
	if LogLevelError >= LogLevelWarn {
		t.Error("LogLevelError should be less than LogLevelWarn")
	}
	if LogLevelWarn >= LogLevelInfo {
		t.Error("LogLevelWarn should be less than LogLevelInfo")
	}
	if LogLevelInfo >= LogLevelDebug {
		t.Error("LogLevelInfo should be less than LogLevelDebug")
	}
}

func TestComponentLog_TagsLines(t *testing.T) {
	originalLevel := logLevel
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	}()

	SetLogLevel(LogLevelInfo)
	storeLog.Warnf("dropping write to %s", "rag.docs")
	sessionLog.Infof("ended chat")
	clientLog.Debugf("suppressed")

	output := buf.String()
	if !strings.Contains(output, "[warn] store: dropping write to rag.docs") {
		t.Errorf("log output = %q, want a store-tagged warning", output)
	}
	if !strings.Contains(output, "[info] session: ended chat") {
		t.Errorf("log output = %q, want a session-tagged info line", output)
	}
	if strings.Contains(output, "suppressed") {
		t.Errorf("log output = %q, want debug suppressed", output)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{" INFO ", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	if LogLevelDebug.String() != "debug" {
		t.Errorf("LogLevelDebug.String() = %q", LogLevelDebug.String())
	}
	if LogLevel(9).String() != "level(9)" {
		t.Errorf("LogLevel(9).String() = %q", LogLevel(9).String())
	}
}
