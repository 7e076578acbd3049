package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const logbookVersion = "1.0"

// Logbook archives ended chats as one JSON file per entry plus a YAML index
type Logbook struct {
	dir string
}

// LogbookMetadata stores metadata about the archive
type LogbookMetadata struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// LogbookEntry is the index record of one ended chat
type LogbookEntry struct {
	ID           string `yaml:"id"`
	ThreadID     string `yaml:"thread_id"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description,omitempty"`
	Useful       bool   `yaml:"useful"`
	Comments     string `yaml:"comments,omitempty"`
	EndedAt      int64  `yaml:"ended_at"`
	MessageCount int    `yaml:"message_count"`
}

// LogbookIndex is the YAML index of all archived chats, newest first
type LogbookIndex struct {
	Entries  []LogbookEntry  `yaml:"entries"`
	Metadata LogbookMetadata `yaml:"metadata"`
}

// NewLogbook creates a logbook rooted at dir
func NewLogbook(dir string) *Logbook {
	return &Logbook{dir: dir}
}

// Dir returns the archive directory
func (lb *Logbook) Dir() string {
	return lb.dir
}

// EnsureDir ensures the archive directory exists
func (lb *Logbook) EnsureDir() error {
	return os.MkdirAll(lb.dir, 0755)
}

// IndexPath returns the path to the YAML index
func (lb *Logbook) IndexPath() string {
	return filepath.Join(lb.dir, "logbook.yaml")
}

// EntryPath returns the path to an archived transcript
func (lb *Logbook) EntryPath(id string) string {
	return filepath.Join(lb.dir, fmt.Sprintf("entry_%s.json", id))
}

// LoadIndex reads the index. A missing index is an empty logbook.
func (lb *Logbook) LoadIndex() (*LogbookIndex, error) {
	data, err := os.ReadFile(lb.IndexPath())
	if errors.Is(err, os.ErrNotExist) {
		now := time.Now()
		return &LogbookIndex{
			Entries:  []LogbookEntry{},
			Metadata: LogbookMetadata{Version: logbookVersion, CreatedAt: now, UpdatedAt: now},
		}, nil
	}
	if err != nil {
		return nil, &StorageError{Path: lb.IndexPath(), Op: "read", Err: err}
	}

	var index LogbookIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal logbook index: %w", err)
	}
	return &index, nil
}

// SaveIndex writes the index
func (lb *Logbook) SaveIndex(index *LogbookIndex) error {
	if err := lb.EnsureDir(); err != nil {
		return &StorageError{Path: lb.dir, Op: "write", Err: err}
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal logbook index: %w", err)
	}
	if err := os.WriteFile(lb.IndexPath(), data, 0644); err != nil {
		return &StorageError{Path: lb.IndexPath(), Op: "write", Err: err}
	}
	return nil
}

// Record archives conv together with its end-of-chat feedback
func (lb *Logbook) Record(fb Feedback, conv *Conversation) (LogbookEntry, error) {
	index, err := lb.LoadIndex()
	if err != nil {
		return LogbookEntry{}, err
	}

	entry := LogbookEntry{
		ID:           uuid.NewString(),
		ThreadID:     fb.ThreadID,
		Title:        fb.Title,
		Description:  fb.Description,
		Useful:       fb.Useful,
		Comments:     fb.Comments,
		EndedAt:      fb.TS,
		MessageCount: len(conv.Messages),
	}

	archived := &Conversation{Thread: conv.Thread, Messages: make([]Message, len(conv.Messages))}
	archived.Thread.Title = fb.Title
	for i, m := range conv.Messages {
		archived.Messages[i] = m.withoutPayload()
	}
	data, err := json.MarshalIndent(archived, "", "  ")
	if err != nil {
		return LogbookEntry{}, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := lb.EnsureDir(); err != nil {
		return LogbookEntry{}, &StorageError{Path: lb.dir, Op: "write", Err: err}
	}
	if err := os.WriteFile(lb.EntryPath(entry.ID), data, 0644); err != nil {
		return LogbookEntry{}, &StorageError{Path: lb.EntryPath(entry.ID), Op: "write", Err: err}
	}

	index.Entries = append([]LogbookEntry{entry}, index.Entries...)
	index.Metadata.UpdatedAt = time.Now()
	if err := lb.SaveIndex(index); err != nil {
		return LogbookEntry{}, err
	}
	return entry, nil
}

// Load reads an archived transcript
func (lb *Logbook) Load(id string) (*Conversation, error) {
	data, err := os.ReadFile(lb.EntryPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{Kind: "logbook entry", ID: id}
	}
	if err != nil {
		return nil, &StorageError{Path: lb.EntryPath(id), Op: "read", Err: err}
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal logbook entry: %w", err)
	}
	return &conv, nil
}

// Search returns entries whose title contains query, newest first. An empty
// query returns everything.
func (lb *Logbook) Search(query string) ([]LogbookEntry, error) {
	index, err := lb.LoadIndex()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return index.Entries, nil
	}
	var out []LogbookEntry
	for _, e := range index.Entries {
		if strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear removes every archived entry and the index
func (lb *Logbook) Clear() error {
	index, err := lb.LoadIndex()
	if err == nil {
		for _, e := range index.Entries {
			_ = os.Remove(lb.EntryPath(e.ID))
		}
	}
	if err := os.Remove(lb.IndexPath()); err != nil && !os.IsNotExist(err) {
		return &StorageError{Path: lb.IndexPath(), Op: "delete", Err: err}
	}
	return nil
}
