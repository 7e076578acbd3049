package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/internal"
)

func TestLogbookCommands(t *testing.T) {
	dbPath := tempStorage(t)
	lb := internal.NewLogbook(filepath.Join(filepath.Dir(dbPath), logbookDirName))
	entry, err := lb.Record(internal.Feedback{ThreadID: "t-1", Title: "Coolant leak", Useful: true, TS: 1704067200000},
		internal.CreateTestConversation("t-1"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	out, err := runCommand(t, "--storage", dbPath, "logbook", "list")
	if err != nil {
		t.Fatalf("logbook list failed: %v", err)
	}
	if !strings.Contains(out, "Coolant leak") || !strings.Contains(out, "1 archived chat(s)") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	out, err = runCommand(t, "--storage", dbPath, "--lang", "en", "logbook", "list", "--search", "spindle")
	if err != nil {
		t.Fatalf("logbook list --search failed: %v", err)
	}
	if !strings.Contains(out, "No results found.") {
		t.Errorf("search should find nothing:\n%s", out)
	}

	out, err = runCommand(t, "--storage", dbPath, "logbook", "show", entry.ID[:8])
	if err != nil {
		t.Fatalf("logbook show failed: %v", err)
	}
	if !strings.Contains(out, "Coolant leak") || !strings.Contains(out, "hold RESET") {
		t.Errorf("unexpected show output:\n%s", out)
	}

	if _, err := runCommand(t, "--storage", dbPath, "logbook", "show", "missing"); err == nil {
		t.Error("showing a missing entry should fail")
	}

	if _, err := runCommand(t, "--storage", dbPath, "logbook", "clear"); err != nil {
		t.Fatalf("logbook clear failed: %v", err)
	}
	entries, err := lb.Search("")
	if err != nil || len(entries) != 0 {
		t.Errorf("logbook not cleared: %v %v", entries, err)
	}
}
