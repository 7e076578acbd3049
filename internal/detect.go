package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName     = "ragchat"
	databaseName   = "state.db"
	memoryDatabase = ":memory:"
)

// StoragePaths holds the resolved locations of the local state
type StoragePaths struct {
	BasePath     string // directory holding the database and feedback log
	DatabasePath string // sqlite file, or ":memory:"
}

// DetectStoragePaths resolves where state lives. An explicit override wins,
// either a directory or a path to a .db file; otherwise the per-user config
// directory is used.
func DetectStoragePaths(override string) (StoragePaths, error) {
	override = strings.TrimSpace(override)
	if override == memoryDatabase {
		dir, err := os.Getwd()
		if err != nil {
			return StoragePaths{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		return StoragePaths{BasePath: dir, DatabasePath: memoryDatabase}, nil
	}
	if override != "" {
		override = expandHome(override)
		if ext := filepath.Ext(override); ext == ".db" || ext == ".sqlite" {
			return StoragePaths{BasePath: filepath.Dir(override), DatabasePath: override}, nil
		}
		return StoragePaths{BasePath: override, DatabasePath: filepath.Join(override, databaseName)}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get config directory: %w", err)
	}
	base := filepath.Join(configDir, appDirName)
	return StoragePaths{BasePath: base, DatabasePath: filepath.Join(base, databaseName)}, nil
}

// DatabaseExists checks if the database file has been created
func (sp StoragePaths) DatabaseExists() bool {
	if sp.DatabasePath == memoryDatabase {
		return true
	}
	_, err := os.Stat(sp.DatabasePath)
	return err == nil
}

// FeedbackPath returns the feedback log beside the database
func (sp StoragePaths) FeedbackPath() string {
	return filepath.Join(sp.BasePath, FeedbackFileName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
