package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySubmission is returned when there is no text, attachment or code to send
	ErrEmptySubmission = errors.New("nothing to send")
	// ErrBusy is returned while an exchange is in flight
	ErrBusy = errors.New("a request is already in flight")
	// ErrAlreadyResolved is returned when a pending exchange is resolved twice
	ErrAlreadyResolved = errors.New("exchange already resolved")
	// ErrRatingRequired is returned when a chat is ended without a usefulness rating
	ErrRatingRequired = errors.New("usefulness rating is required")
)

// StorageError represents errors accessing the local store
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError means no backend endpoint is configured
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s is not set", e.Field)
}

// TimeoutError means the backend did not answer within the client timeout
type TimeoutError struct {
	After string
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the backend
type HTTPError struct {
	Status      int
	BodyExcerpt string
}

func (e *HTTPError) Error() string {
	if e.BodyExcerpt == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.BodyExcerpt)
}

// ProtocolError is a response that is not valid JSON
type ProtocolError struct {
	ContentType string
	Err         error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error [%s]: %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("protocol error: unexpected content type %q", e.ContentType)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// EncodingError represents a failure capturing or reading an attachment
type EncodingError struct {
	Name string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error [%s]: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// NotFoundError references a thread, attachment or document that does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
