package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/testutil"
)

func TestThreadsCommands(t *testing.T) {
	dbPath := fixtureStorage(t)

	out, err := runCommand(t, "--storage", dbPath, "threads", "list")
	if err != nil {
		t.Fatalf("threads list failed: %v", err)
	}
	if !strings.Contains(out, "Spindle reset") {
		t.Errorf("threads list output missing seeded thread:\n%s", out)
	}

	out, err = runCommand(t, "--storage", dbPath, "threads", "new")
	if err != nil {
		t.Fatalf("threads new failed: %v", err)
	}
	newID := strings.TrimSpace(out)
	if newID == "" {
		t.Fatal("threads new should print the new thread ID")
	}

	if _, err := runCommand(t, "--storage", dbPath, "threads", "rename", newID[:8], "Coolant", "leak"); err != nil {
		t.Fatalf("threads rename failed: %v", err)
	}
	out, err = runCommand(t, "--storage", dbPath, "threads", "list", "--search", "coolant")
	if err != nil {
		t.Fatalf("threads list --search failed: %v", err)
	}
	if !strings.Contains(out, "Coolant leak") || strings.Contains(out, "Spindle reset") {
		t.Errorf("search output unexpected:\n%s", out)
	}

	if _, err := runCommand(t, "--storage", dbPath, "threads", "delete", testutil.SampleThreadID); err != nil {
		t.Fatalf("threads delete failed: %v", err)
	}
	out, _ = runCommand(t, "--storage", dbPath, "threads", "list")
	if strings.Contains(out, "Spindle reset") {
		t.Errorf("deleted thread still listed:\n%s", out)
	}
}

func TestThreadsCommands_Errors(t *testing.T) {
	dbPath := fixtureStorage(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "rename missing thread", args: []string{"threads", "rename", "does-not-exist", "title"}},
		{name: "rename without title", args: []string{"threads", "rename", testutil.SampleThreadID}},
		{name: "delete missing thread", args: []string{"threads", "delete", "does-not-exist"}},
		{name: "new with args", args: []string{"threads", "new", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--storage", dbPath}, tt.args...)
			if _, err := runCommand(t, args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestDisplayThreads(t *testing.T) {
	now := time.Now().UnixMilli()
	threads := []internal.Thread{
		{ID: "aaaaaaaa-0000", Title: "Active one", UpdatedAt: now},
		{ID: "bbbbbbbb-0000", Title: "", UpdatedAt: 0},
	}

	var buf bytes.Buffer
	displayThreads(&buf, threads, map[string]int{"aaaaaaaa-0000": 4}, "aaaaaaaa-0000", internal.T(internal.LangEN))
	out := buf.String()

	for _, want := range []string{"Found 2 thread(s)", "aaaaaaaa", "● Active one", "New conversation", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	displayThreads(&buf, nil, nil, "", internal.T(internal.LangEN))
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("empty list output = %q", buf.String())
	}
}

func TestFormatWhen(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{name: "unset", ms: 0, want: "—"},
		{name: "hours ago", ms: now.Add(-3 * time.Hour).UnixMilli(), want: "3 hours ago"},
		{name: "this year", ms: time.Date(2024, 3, 2, 9, 30, 0, 0, time.Local).UnixMilli(), want: "Mar 02 09:30"},
		{name: "long ago", ms: time.Date(2020, 1, 5, 0, 0, 0, 0, time.Local).UnixMilli(), want: "2020-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatWhen(tt.ms, now); got != tt.want {
				t.Errorf("formatWhen() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("1234567890"); got != "12345678" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q", got)
	}
}
