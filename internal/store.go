package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Key layout of the local store
const (
	KeyPrefix   = "rag."
	KeySettings = KeyPrefix + "settings"
	KeyThreads  = KeyPrefix + "threads"
	KeyDocs     = KeyPrefix + "docs"

	messagesKeyPrefix = KeyPrefix + "messages:"
)

// DefaultMaxValueSize mirrors the per-origin quota of browser storage
const DefaultMaxValueSize = 5 << 20

// MessagesKey returns the key holding a thread's transcript
func MessagesKey(threadID string) string {
	return messagesKeyPrefix + threadID
}

// Store is a best-effort JSON key/value store on top of the kv table.
// Reads fall back to defaults and writes never fail the caller.
type Store struct {
	db   *sql.DB
	path string

	// MaxValueSize drops writes whose encoded value is larger (0 disables the check)
	MaxValueSize int
}

// KeyInfo describes a stored key
type KeyInfo struct {
	Key  string
	Size int
}

// NewStore wraps an open database
func NewStore(db *sql.DB, path string) *Store {
	return &Store{db: db, path: path, MaxValueSize: DefaultMaxValueSize}
}

// OpenStore opens the database at path and wraps it in a Store
func OpenStore(path string) (*Store, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db, path), nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Available reports whether the store has a usable database
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

// Get returns the raw value for key
func (s *Store) Get(key string) (string, bool) {
	if !s.Available() {
		return "", false
	}
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			storeLog.Warnf("Failed to read %s: %v", key, err)
		}
		return "", false
	}
	if !value.Valid {
		return "", false
	}
	return value.String, true
}

// LoadJSON decodes the value stored under key, returning def when the key is
// missing, the JSON is invalid or the store is unavailable
func LoadJSON[T any](s *Store, key string, def T) T {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		storeLog.Debugf("Ignoring invalid JSON under %s: %v", key, err)
		return def
	}
	return v
}

// SaveJSON serializes value and writes it under key. Failures are logged and dropped.
func (s *Store) SaveJSON(key string, value interface{}) {
	if !s.Available() {
		storeLog.Debugf("Store unavailable, dropping write to %s", key)
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		storeLog.Warnf("Failed to encode %s: %v", key, err)
		return
	}
	if s.MaxValueSize > 0 && len(data) > s.MaxValueSize {
		storeLog.Warnf("Dropping write to %s: %d bytes exceeds quota of %d", key, len(data), s.MaxValueSize)
		return
	}
	_, err = s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(data),
	)
	if err != nil {
		storeLog.Warnf("%v", &StorageError{Path: s.path, Op: "write", Err: err})
	}
}

// Delete removes key. Failures are logged and dropped.
func (s *Store) Delete(key string) {
	if !s.Available() {
		return
	}
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		storeLog.Warnf("%v", &StorageError{Path: s.path, Op: "delete", Err: err})
	}
}

// Keys lists stored keys starting with prefix
func (s *Store) Keys(prefix string) ([]KeyInfo, error) {
	if !s.Available() {
		return nil, &StorageError{Path: s.Path(), Op: "read", Err: errors.New("store unavailable")}
	}
	pairs, err := QueryKV(s.db, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	infos := make([]KeyInfo, 0, len(pairs))
	for _, pair := range pairs {
		infos = append(infos, KeyInfo{Key: pair.Key, Size: len(pair.Value)})
	}
	return infos, nil
}

// Reset deletes every key owned by this application
func (s *Store) Reset() error {
	if !s.Available() {
		return &StorageError{Path: s.Path(), Op: "delete", Err: errors.New("store unavailable")}
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key LIKE ? ESCAPE '\'`, likePrefix(KeyPrefix)); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// likePrefix escapes LIKE wildcards in prefix and appends %
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
