package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/testutil"
)

func TestDocsCommands(t *testing.T) {
	dbPath := tempStorage(t)
	pdf := filepath.Join(filepath.Dir(dbPath), "manual.pdf")
	testutil.WriteFile(t, pdf, []byte("%PDF-1.4 fixture"))

	linkOut, err := runCommand(t, "--storage", dbPath, "docs", "add", "https://example.com/portal", "--name", "Portal")
	if err != nil {
		t.Fatalf("docs add link failed: %v", err)
	}
	linkID := strings.TrimSpace(linkOut)

	if _, err := runCommand(t, "--storage", dbPath, "docs", "add", pdf); err != nil {
		t.Fatalf("docs add pdf failed: %v", err)
	}

	out, err := runCommand(t, "--storage", dbPath, "docs", "list")
	if err != nil {
		t.Fatalf("docs list failed: %v", err)
	}
	for _, want := range []string{"2 document(s)", "Portal", "manual.pdf", "link", "pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("docs list missing %q:\n%s", want, out)
		}
	}

	out, err = runCommand(t, "--storage", dbPath, "docs", "list", "--reference")
	if err != nil {
		t.Fatalf("docs list --reference failed: %v", err)
	}
	if !strings.Contains(out, "1 document(s)") || strings.Contains(out, "Portal") {
		t.Errorf("reference list should only hold the PDF:\n%s", out)
	}

	if _, err := runCommand(t, "--storage", dbPath, "docs", "remove", linkID[:8]); err != nil {
		t.Fatalf("docs remove failed: %v", err)
	}
	out, _ = runCommand(t, "--storage", dbPath, "docs", "list")
	if strings.Contains(out, "Portal") {
		t.Errorf("removed document still listed:\n%s", out)
	}

	if _, err := runCommand(t, "--storage", dbPath, "docs", "remove", "missing-id"); err == nil {
		t.Error("removing a missing document should fail")
	}
	if _, err := runCommand(t, "--storage", dbPath, "docs", "add", filepath.Join(filepath.Dir(dbPath), "nope.pdf")); err == nil {
		t.Error("adding a missing file should fail")
	}
}
