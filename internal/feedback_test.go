package internal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileFeedbackSink_AppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sink := NewFileFeedbackSink(dir)
	require.Equal(t, filepath.Join(dir, "feedback.jsonl"), sink.Path())

	require.NoError(t, sink.Record(Feedback{ThreadID: "t1", Title: "One", Useful: true, TS: 1}))
	require.NoError(t, sink.Record(Feedback{ThreadID: "t2", Title: "Two", Useful: false, Comments: "slow", TS: 2}))

	f, err := os.Open(sink.Path())
	require.NoError(t, err)
	defer f.Close()

	var got []Feedback
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var fb Feedback
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &fb))
		got = append(got, fb)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, got, 2)
	require.Equal(t, "t1", got[0].ThreadID)
	require.False(t, got[1].Useful)
	require.Equal(t, "slow", got[1].Comments)
}

func TestFileFeedbackSink_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	sink := NewFileFeedbackSink(file)
	err := sink.Record(Feedback{ThreadID: "t1"})
	var se *StorageError
	require.ErrorAs(t, err, &se)
}
