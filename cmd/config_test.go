package cmd

import (
	"strings"
	"testing"
)

func TestConfigCommands(t *testing.T) {
	dbPath := tempStorage(t)

	out, err := runCommand(t, "--storage", dbPath, "--lang", "en", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"demo mode", "30s", "history-limit  20", dbPath} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	for _, kv := range [][2]string{
		{"endpoint", "https://rag.example.com/chat"},
		{"api-key", "sk-abcdef1234"},
		{"timeout", "12"},
	} {
		if _, err := runCommand(t, "--storage", dbPath, "config", "set", kv[0], kv[1]); err != nil {
			t.Fatalf("config set %s failed: %v", kv[0], err)
		}
	}

	out, err = runCommand(t, "--storage", dbPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"https://rag.example.com/chat", "*********1234", "12s"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sk-abcdef1234") {
		t.Error("config show must not print the full API key")
	}

	out, err = runCommand(t, "--storage", dbPath, "--timeout", "3", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "3s") {
		t.Errorf("--timeout should override saved settings:\n%s", out)
	}

	if _, err := runCommand(t, "--storage", dbPath, "config", "reset"); err != nil {
		t.Fatalf("config reset failed: %v", err)
	}
	out, _ = runCommand(t, "--storage", dbPath, "config", "show")
	if strings.Contains(out, "rag.example.com") {
		t.Errorf("reset should forget the saved endpoint:\n%s", out)
	}
}

func TestConfigSet_Errors(t *testing.T) {
	dbPath := tempStorage(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown key", args: []string{"config", "set", "color", "blue"}},
		{name: "bad timeout", args: []string{"config", "set", "timeout", "soon"}},
		{name: "missing value", args: []string{"config", "set", "endpoint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, append([]string{"--storage", dbPath}, tt.args...)...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestConfigReset_All(t *testing.T) {
	dbPath := fixtureStorage(t)

	if _, err := runCommand(t, "--storage", dbPath, "config", "reset", "--all"); err != nil {
		t.Fatalf("config reset --all failed: %v", err)
	}
	out, err := runCommand(t, "--storage", dbPath, "threads", "list")
	if err != nil {
		t.Fatalf("threads list failed: %v", err)
	}
	if strings.Contains(out, "Spindle reset") {
		t.Errorf("threads should be gone after reset --all:\n%s", out)
	}
}
