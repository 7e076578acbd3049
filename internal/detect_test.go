package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/testutil"
)

func TestDetectStoragePaths(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)

	tests := []struct {
		name     string
		override string
		wantBase string
		wantDB   string
	}{
		{
			name:     "directory override",
			override: tmpDir,
			wantBase: tmpDir,
			wantDB:   filepath.Join(tmpDir, "state.db"),
		},
		{
			name:     "database file override",
			override: filepath.Join(tmpDir, "custom.db"),
			wantBase: tmpDir,
			wantDB:   filepath.Join(tmpDir, "custom.db"),
		},
		{
			name:     "sqlite extension",
			override: filepath.Join(tmpDir, "chat.sqlite"),
			wantBase: tmpDir,
			wantDB:   filepath.Join(tmpDir, "chat.sqlite"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := DetectStoragePaths(tt.override)
			if err != nil {
				t.Fatalf("DetectStoragePaths() error = %v", err)
			}
			if paths.BasePath != tt.wantBase {
				t.Errorf("BasePath = %q, want %q", paths.BasePath, tt.wantBase)
			}
			if paths.DatabasePath != tt.wantDB {
				t.Errorf("DatabasePath = %q, want %q", paths.DatabasePath, tt.wantDB)
			}
		})
	}
}

func TestDetectStoragePaths_Default(t *testing.T) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}

	paths, err := DetectStoragePaths("")
	if err != nil {
		t.Fatalf("DetectStoragePaths() error = %v", err)
	}
	if !strings.HasPrefix(paths.DatabasePath, configDir) {
		t.Errorf("DatabasePath = %q, want it under %q", paths.DatabasePath, configDir)
	}
	if filepath.Base(paths.DatabasePath) != "state.db" {
		t.Errorf("DatabasePath = %q, want state.db", paths.DatabasePath)
	}
}

func TestDetectStoragePaths_Memory(t *testing.T) {
	paths, err := DetectStoragePaths(":memory:")
	if err != nil {
		t.Fatalf("DetectStoragePaths() error = %v", err)
	}
	if paths.DatabasePath != ":memory:" {
		t.Errorf("DatabasePath = %q, want :memory:", paths.DatabasePath)
	}
	if !paths.DatabaseExists() {
		t.Error("DatabaseExists() should be true for an in-memory database")
	}
}

func TestStoragePaths_DatabaseExists(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)
	paths, err := DetectStoragePaths(tmpDir)
	if err != nil {
		t.Fatalf("DetectStoragePaths() error = %v", err)
	}

	if paths.DatabaseExists() {
		t.Error("DatabaseExists() should be false before the database is created")
	}
	testutil.CreateSQLiteFixture(t, paths.DatabasePath)
	if !paths.DatabaseExists() {
		t.Error("DatabaseExists() should be true after the database is created")
	}
	if got, want := paths.FeedbackPath(), filepath.Join(tmpDir, "feedback.jsonl"); got != want {
		t.Errorf("FeedbackPath() = %q, want %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got, want := expandHome("~/ragchat"), filepath.Join(home, "ragchat"); got != want {
		t.Errorf("expandHome() = %q, want %q", got, want)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome() = %q, want unchanged", got)
	}
}
