package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/ragchat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCommand executes rootCmd with fresh flag values and returns what the
// command wrote to its output
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// tempStorage returns a database path in a fresh directory with the backend
// environment cleared, so commands answer in demo mode
func tempStorage(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"RAG_ENDPOINT", "RAG_API_KEY", "RAG_STREAMING", "RAG_TIMEOUT_SECONDS", "RAG_HISTORY_LIMIT", "RAGCHAT_STORAGE", "RAGCHAT_LANG", "RAGCHAT_THEME", "RAGCHAT_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return filepath.Join(testutil.CreateTempDir(t), "state.db")
}

// fixtureStorage is tempStorage seeded with testutil.SampleState
func fixtureStorage(t *testing.T) string {
	t.Helper()
	dbPath := tempStorage(t)
	testutil.CreateSQLiteFixture(t, dbPath)
	return dbPath
}
