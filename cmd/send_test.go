package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/testutil"
)

func TestSendCommand_OfflineDemo(t *testing.T) {
	dbPath := tempStorage(t)

	out, err := runCommand(t, "--storage", dbPath, "--lang", "en", "send", "Spindle", "will", "not", "start")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !strings.Contains(out, internal.DemoReplyText) {
		t.Errorf("output missing demo reply:\n%s", out)
	}
	if !strings.Contains(out, "[1] Sample document - https://example.com") {
		t.Errorf("output missing demo citation:\n%s", out)
	}

	out, err = runCommand(t, "--storage", dbPath, "threads", "list")
	if err != nil {
		t.Fatalf("threads list failed: %v", err)
	}
	if !strings.Contains(out, "Spindle will not start") {
		t.Errorf("thread was not titled from the question:\n%s", out)
	}
}

func TestSendCommand_WithCodesAndFile(t *testing.T) {
	dbPath := tempStorage(t)
	file := filepath.Join(filepath.Dir(dbPath), "notes.txt")
	testutil.WriteFile(t, file, []byte("alarm 42 after reset"))

	if _, err := runCommand(t, "--storage", dbPath, "send", "--new", "--qr", "MX-4411", "--file", file); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	out, err := runCommand(t, "--storage", dbPath, "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"QR codes:", "- MX-4411", "notes.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestSendCommand_Errors(t *testing.T) {
	dbPath := tempStorage(t)

	_, err := runCommand(t, "--storage", dbPath, "send")
	if !errors.Is(err, internal.ErrEmptySubmission) {
		t.Errorf("empty send error = %v, want ErrEmptySubmission", err)
	}

	_, err = runCommand(t, "--storage", dbPath, "send", "--file", filepath.Join(filepath.Dir(dbPath), "missing.pdf"), "hi")
	if err == nil {
		t.Error("send with a missing file should fail")
	}
	out, err := runCommand(t, "--storage", dbPath, "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "missing.pdf") {
		t.Errorf("encoding failure should be shown in the transcript:\n%s", out)
	}

	_, err = runCommand(t, "--storage", dbPath, "send", "--thread", "does-not-exist", "hi")
	var nf *internal.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("send to unknown thread error = %v, want NotFoundError", err)
	}
}
