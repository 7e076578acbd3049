package internal

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultThreadTitle names threads that have not been titled yet
	DefaultThreadTitle = "New conversation"
	// MaxTitleLength is the display length of a thread title, in runes
	MaxTitleLength = 42

	titleEllipsis = "…"
)

// Registry keeps the ordered list of threads and which one is active.
// It is not safe for concurrent use; the Controller serializes access.
type Registry struct {
	store        *Store
	threads      []Thread // most recently created first
	active       string
	defaultTitle string
	newID        func() string
	now          func() time.Time
}

// NewRegistry loads the thread index from store
func NewRegistry(store *Store) *Registry {
	return &Registry{
		store:        store,
		threads:      LoadJSON(store, KeyThreads, []Thread{}),
		defaultTitle: DefaultThreadTitle,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// SetDefaultTitle sets the title given to threads created without one
func (r *Registry) SetDefaultTitle(title string) {
	if strings.TrimSpace(title) != "" {
		r.defaultTitle = title
	}
}

// EnsureActive guarantees an active thread, creating one on first use
func (r *Registry) EnsureActive() Thread {
	if t, ok := r.find(r.active); ok {
		return r.threads[t]
	}
	if len(r.threads) == 0 {
		t := r.CreateThread(r.defaultTitle)
		r.active = t.ID
		return t
	}
	t := r.ListRecent(1)[0]
	r.active = t.ID
	return t
}

// Active returns the active thread
func (r *Registry) Active() Thread {
	return r.EnsureActive()
}

// SetActive makes id the active thread
func (r *Registry) SetActive(id string) error {
	if _, ok := r.find(id); !ok {
		return &NotFoundError{Kind: "thread", ID: id}
	}
	r.active = id
	return nil
}

// CreateThread inserts a fresh thread at the front of the list and persists it
func (r *Registry) CreateThread(initialTitle string) Thread {
	title := TruncateTitle(initialTitle)
	if strings.TrimSpace(title) == "" {
		title = r.defaultTitle
	}
	now := r.now().UnixMilli()
	t := Thread{
		ID:        r.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.threads = append([]Thread{t}, r.threads...)
	r.persist()
	threadLog.Debugf("Created thread %s", t.ID)
	return t
}

// Get returns the thread with id
func (r *Registry) Get(id string) (Thread, error) {
	i, ok := r.find(id)
	if !ok {
		return Thread{}, &NotFoundError{Kind: "thread", ID: id}
	}
	return r.threads[i], nil
}

// Len returns the number of threads
func (r *Registry) Len() int {
	return len(r.threads)
}

// ListRecent returns threads by updatedAt descending, ties broken by
// createdAt descending. A limit <= 0 returns every thread.
func (r *Registry) ListRecent(limit int) []Thread {
	sorted := make([]Thread, len(r.threads))
	copy(sorted, r.threads)
	sortByRecency(sorted)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Search returns threads whose title contains query, most recent first
func (r *Registry) Search(query string, limit int) []Thread {
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []Thread
	for _, t := range r.ListRecent(0) {
		if q == "" || strings.Contains(strings.ToLower(t.Title), q) {
			matches = append(matches, t)
		}
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

// RenameIfUntitled sets the title only while the thread has no completed
// reply. It reports whether the title changed.
func (r *Registry) RenameIfUntitled(id, candidate string) (bool, error) {
	i, ok := r.find(id)
	if !ok {
		return false, &NotFoundError{Kind: "thread", ID: id}
	}
	if r.threads[i].Replies > 0 {
		return false, nil
	}
	if strings.TrimSpace(candidate) == "" {
		return false, nil
	}
	r.threads[i].Title = TruncateTitle(candidate)
	r.persist()
	return true, nil
}

// Rename applies a user-edited title
func (r *Registry) Rename(id, title string) error {
	i, ok := r.find(id)
	if !ok {
		return &NotFoundError{Kind: "thread", ID: id}
	}
	if strings.TrimSpace(title) != "" {
		r.threads[i].Title = TruncateTitle(title)
		r.persist()
	}
	return nil
}

// RecordReply bumps updatedAt and the completed reply count
func (r *Registry) RecordReply(id string) error {
	i, ok := r.find(id)
	if !ok {
		return &NotFoundError{Kind: "thread", ID: id}
	}
	r.threads[i].UpdatedAt = r.now().UnixMilli()
	r.threads[i].Replies++
	r.persist()
	return nil
}

// DeleteThread removes a thread and its transcript. When the active thread is
// deleted the most recent remaining thread, or a new one, becomes active.
func (r *Registry) DeleteThread(id string) error {
	i, ok := r.find(id)
	if !ok {
		return &NotFoundError{Kind: "thread", ID: id}
	}
	r.threads = append(r.threads[:i], r.threads[i+1:]...)
	r.persist()
	r.store.Delete(MessagesKey(id))
	threadLog.Debugf("Deleted thread %s", id)

	if r.active == id {
		r.active = ""
		r.EnsureActive()
	}
	return nil
}

// TruncateTitle shortens s to MaxTitleLength runes plus an ellipsis
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLength {
		return s
	}
	return string(runes[:MaxTitleLength]) + titleEllipsis
}

func (r *Registry) find(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i, t := range r.threads {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (r *Registry) persist() {
	r.store.SaveJSON(KeyThreads, r.threads)
}

func sortByRecency(threads []Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].UpdatedAt != threads[j].UpdatedAt {
			return threads[i].UpdatedAt > threads[j].UpdatedAt
		}
		return threads[i].CreatedAt > threads[j].CreatedAt
	})
}
