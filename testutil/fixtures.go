package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SampleThreadID is the thread seeded by SampleState
const SampleThreadID = "11111111-1111-4111-8111-111111111111"

// SampleState returns raw store contents with one titled thread and its
// two-message transcript
func SampleState() map[string]string {
	return map[string]string{
		"rag.threads": `[{"id":"` + SampleThreadID + `","title":"Spindle reset","createdAt":1704067200000,"updatedAt":1704067201000,"replies":1}]`,
		"rag.messages:" + SampleThreadID: `[` +
			`{"id":"m1","role":"user","content":"How do I reset the spindle drive?","createdAt":1704067200000},` +
			`{"id":"m2","role":"assistant","content":"Hold RESET for five seconds.","citations":[{"n":1,"url":"https://example.com/manual.pdf","title":"Maintenance Manual"}],"createdAt":1704067201000}` +
			`]`,
	}
}

// CreateSQLiteFixture writes a state database seeded with SampleState at dbPath
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createKVTable); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	for key, value := range SampleState() {
		InsertKV(t, db, key, value)
	}
}
