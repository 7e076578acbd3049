package internal

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock returns successive millisecond timestamps
type fakeClock struct {
	ms int64
}

func (c *fakeClock) Now() time.Time {
	c.ms++
	return time.UnixMilli(c.ms)
}

func newTestRegistry(t *testing.T) (*Registry, *Store) {
	t.Helper()
	s := newTestStore(t)
	r := NewRegistry(s)
	clock := &fakeClock{ms: testEpoch}
	r.now = clock.Now
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("thread-%d", n)
	}
	return r, s
}

func TestRegistry_CreateThread(t *testing.T) {
	r, s := newTestRegistry(t)

	first := r.CreateThread("")
	second := r.CreateThread("Coolant leak")

	require.Equal(t, DefaultThreadTitle, first.Title)
	require.Equal(t, "Coolant leak", second.Title)
	require.Equal(t, second.CreatedAt, second.UpdatedAt)
	require.NotEqual(t, first.ID, second.ID)

	stored := LoadJSON(s, KeyThreads, []Thread{})
	require.Len(t, stored, 2)
	require.Equal(t, second.ID, stored[0].ID, "new threads go to the front")
}

func TestRegistry_ListRecent(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.threads = []Thread{
		{ID: "a", UpdatedAt: 5, CreatedAt: 1},
		{ID: "b", UpdatedAt: 9, CreatedAt: 2},
		{ID: "c", UpdatedAt: 2, CreatedAt: 3},
	}

	recent := r.ListRecent(2)
	require.Len(t, recent, 2)
	require.Equal(t, int64(9), recent[0].UpdatedAt)
	require.Equal(t, int64(5), recent[1].UpdatedAt)

	require.Len(t, r.ListRecent(0), 3)
	require.Len(t, r.ListRecent(10), 3)
}

func TestRegistry_ListRecent_TiesByCreatedAt(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.threads = []Thread{
		{ID: "old", UpdatedAt: 7, CreatedAt: 1},
		{ID: "new", UpdatedAt: 7, CreatedAt: 4},
	}

	recent := r.ListRecent(0)
	require.Equal(t, "new", recent[0].ID)
	require.Equal(t, "old", recent[1].ID)
}

func TestTruncateTitle(t *testing.T) {
	exact := strings.Repeat("a", MaxTitleLength)
	long := strings.Repeat("b", 50)
	accents := strings.Repeat("ñ", 45)

	require.Equal(t, "short", TruncateTitle("short"))
	require.Equal(t, exact, TruncateTitle(exact))
	require.Equal(t, strings.Repeat("b", 42)+"…", TruncateTitle(long))
	require.Equal(t, strings.Repeat("ñ", 42)+"…", TruncateTitle(accents), "truncation counts runes, not bytes")
}

func TestRegistry_RenameIfUntitled(t *testing.T) {
	r, _ := newTestRegistry(t)
	th := r.CreateThread("")

	renamed, err := r.RenameIfUntitled(th.ID, strings.Repeat("x", 60))
	require.NoError(t, err)
	require.True(t, renamed)
	got, _ := r.Get(th.ID)
	require.Equal(t, strings.Repeat("x", 42)+"…", got.Title)

	renamed, err = r.RenameIfUntitled(th.ID, "   ")
	require.NoError(t, err)
	require.False(t, renamed, "blank candidates are ignored")

	require.NoError(t, r.RecordReply(th.ID))
	renamed, err = r.RenameIfUntitled(th.ID, "Second title")
	require.NoError(t, err)
	require.False(t, renamed, "titled after the first completed reply only")

	_, err = r.RenameIfUntitled("missing", "x")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRegistry_RecordReply(t *testing.T) {
	r, _ := newTestRegistry(t)
	th := r.CreateThread("x")

	require.NoError(t, r.RecordReply(th.ID))
	got, _ := r.Get(th.ID)
	require.Equal(t, 1, got.Replies)
	require.Greater(t, got.UpdatedAt, th.UpdatedAt)
}

func TestRegistry_Rename(t *testing.T) {
	r, _ := newTestRegistry(t)
	th := r.CreateThread("x")

	require.NoError(t, r.Rename(th.ID, "Edited"))
	got, _ := r.Get(th.ID)
	require.Equal(t, "Edited", got.Title)

	require.NoError(t, r.Rename(th.ID, ""))
	got, _ = r.Get(th.ID)
	require.Equal(t, "Edited", got.Title, "empty edits keep the old title")

	var nf *NotFoundError
	require.ErrorAs(t, r.Rename("missing", "x"), &nf)
}

func TestRegistry_Search(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.CreateThread("Spindle reset")
	r.CreateThread("Coolant leak")
	r.CreateThread("spindle noise")

	matches := r.Search("SPINDLE", 0)
	require.Len(t, matches, 2)
	require.Equal(t, "spindle noise", matches[0].Title)

	require.Len(t, r.Search("", 2), 2)
	require.Empty(t, r.Search("hydraulic", 0))
}

func TestRegistry_EnsureActive(t *testing.T) {
	r, _ := newTestRegistry(t)

	created := r.EnsureActive()
	require.Equal(t, 1, r.Len(), "an empty registry gets a fresh thread")
	require.Equal(t, created.ID, r.Active().ID)

	other := r.CreateThread("Other")
	require.NoError(t, r.SetActive(other.ID))
	require.Equal(t, other.ID, r.Active().ID)

	var nf *NotFoundError
	require.ErrorAs(t, r.SetActive("missing"), &nf)
	require.Equal(t, other.ID, r.Active().ID)
}

func TestRegistry_DeleteThread(t *testing.T) {
	r, s := newTestRegistry(t)
	a := r.CreateThread("A")
	b := r.CreateThread("B")
	s.SaveJSON(MessagesKey(b.ID), []Message{{ID: "m1"}})
	require.NoError(t, r.SetActive(b.ID))

	require.NoError(t, r.DeleteThread(b.ID))
	_, ok := s.Get(MessagesKey(b.ID))
	require.False(t, ok, "transcript key is removed with the thread")
	require.Equal(t, a.ID, r.Active().ID, "most recent remaining thread becomes active")

	require.NoError(t, r.DeleteThread(a.ID))
	require.Equal(t, 1, r.Len(), "deleting the last thread creates a new one")
	require.NotEqual(t, a.ID, r.Active().ID)

	var nf *NotFoundError
	require.ErrorAs(t, r.DeleteThread("missing"), &nf)
}

func TestRegistry_DefaultTitle(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.SetDefaultTitle("Nueva conversación")
	r.SetDefaultTitle("  ")

	first := r.EnsureActive()
	require.Equal(t, "Nueva conversación", first.Title)

	require.NoError(t, r.DeleteThread(first.ID))
	require.Equal(t, "Nueva conversación", r.Active().Title, "replacement thread uses the configured title")
	require.Equal(t, "Nueva conversación", r.CreateThread("").Title)
}

func TestRegistry_ReloadFromStore(t *testing.T) {
	r, s := newTestRegistry(t)
	th := r.CreateThread("Persisted")

	reloaded := NewRegistry(s)
	got, err := reloaded.Get(th.ID)
	require.NoError(t, err)
	require.Equal(t, th, got)
}
