package internal

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/state.db",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/state.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "endpoint"}
	if got, want := err.Error(), "config error: endpoint is not set"; got != want {
		t.Errorf("ConfigError.Error() = %q, want %q", got, want)
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{After: "30s", Err: context.DeadlineExceeded}

	if !strings.Contains(err.Error(), "30s") {
		t.Errorf("TimeoutError.Error() should contain the timeout, got: %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError.Unwrap() should return context.DeadlineExceeded")
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{Status: 500, BodyExcerpt: "internal"}
	if got, want := err.Error(), "HTTP 500: internal"; got != want {
		t.Errorf("HTTPError.Error() = %q, want %q", got, want)
	}
}

func TestProtocolError(t *testing.T) {
	originalErr := errors.New("unexpected end of JSON input")
	tests := []struct {
		name    string
		err     *ProtocolError
		want    string
		wrapped bool
	}{
		{
			name: "content type only",
			err:  &ProtocolError{ContentType: "text/html"},
			want: "text/html",
		},
		{
			name:    "malformed body",
			err:     &ProtocolError{ContentType: "application/json", Err: originalErr},
			want:    "unexpected end of JSON input",
			wrapped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("ProtocolError.Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
			}
			if got := errors.Is(tt.err, originalErr); got != tt.wrapped {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wrapped)
			}
		})
	}
}

func TestEncodingError(t *testing.T) {
	originalErr := errors.New("short read")
	err := &EncodingError{Name: "photo.png", Err: originalErr}

	if !strings.Contains(err.Error(), "photo.png") {
		t.Errorf("EncodingError.Error() should contain the name, got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("EncodingError.Unwrap() should return original error")
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Kind: "thread", ID: "abc"}
	if got, want := err.Error(), "thread not found: abc"; got != want {
		t.Errorf("NotFoundError.Error() = %q, want %q", got, want)
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "json",
		Path:   "/output/path",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "json") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
