package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FeedbackFileName is the file FileFeedbackSink appends to
const FeedbackFileName = "feedback.jsonl"

// Summary is what the user fills in when ending a chat
type Summary struct {
	Title       string
	Description string
	Useful      *bool
	Comments    string
	// TitleEdited renames the thread to Title when the chat ends
	TitleEdited bool
}

// Feedback is the record handed to a FeedbackSink
type Feedback struct {
	ThreadID    string `json:"threadId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Useful      bool   `json:"useful"`
	Comments    string `json:"comments,omitempty"`
	TS          int64  `json:"ts"`
}

// FeedbackSink receives end-of-chat summaries
type FeedbackSink interface {
	Record(fb Feedback) error
}

// FileFeedbackSink appends feedback as JSON lines
type FileFeedbackSink struct {
	mu   sync.Mutex
	path string
}

// NewFileFeedbackSink writes to feedback.jsonl in dir
func NewFileFeedbackSink(dir string) *FileFeedbackSink {
	return &FileFeedbackSink{path: filepath.Join(dir, FeedbackFileName)}
}

// Path returns the file being appended to
func (s *FileFeedbackSink) Path() string {
	return s.path
}

// Record appends fb to the file
func (s *FileFeedbackSink) Record(fb Feedback) error {
	line, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// SummaryDefaults pre-fills the end-of-chat form for the active thread
func (c *Controller) SummaryDefaults() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	strs := T(c.lang)
	thread := c.registry.EnsureActive()
	title := thread.Title
	if !strings.HasPrefix(title, strs.AutoTitlePrefix) {
		title = strs.AutoTitlePrefix + " " + title
	}
	s := Summary{Title: strings.TrimSpace(title)}
	for _, m := range c.transcriptLocked(thread.ID).Messages() {
		if m.Role == RoleUser {
			s.Description = strings.TrimSpace(strs.AutoDescPrefix + " " + m.Content)
			break
		}
	}
	return s
}

// EndChat forwards the summary, archives the transcript in the logbook,
// renames the thread when the title was edited and clears the active
// transcript
func (c *Controller) EndChat(summary Summary) error {
	if summary.Useful == nil {
		return ErrRatingRequired
	}
	return c.update(func() error {
		if c.state == StateSending {
			return ErrBusy
		}
		thread := c.registry.EnsureActive()

		title := strings.TrimSpace(summary.Title)
		if title == "" {
			title = thread.Title
		}
		fb := Feedback{
			ThreadID:    thread.ID,
			Title:       title,
			Description: strings.TrimSpace(summary.Description),
			Useful:      *summary.Useful,
			Comments:    strings.TrimSpace(summary.Comments),
			TS:          c.now().UnixMilli(),
		}
		if c.feedback != nil {
			if err := c.feedback.Record(fb); err != nil {
				return fmt.Errorf("record feedback: %w", err)
			}
		}

		if c.logbook != nil {
			conv := &Conversation{Thread: thread, Messages: c.transcriptLocked(thread.ID).Messages()}
			if _, err := c.logbook.Record(fb, conv); err != nil {
				sessionLog.Warnf("Failed to archive chat %s: %v", thread.ID, err)
			}
		}

		if summary.TitleEdited && title != thread.Title {
			if err := c.registry.Rename(thread.ID, title); err != nil {
				return err
			}
		}
		c.transcriptLocked(thread.ID).Clear()
		c.pending = Pending{}
		sessionLog.Infof("Ended chat on thread %s", thread.ID)
		return nil
	})
}
