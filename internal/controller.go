package internal

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the controller's exchange state
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Pending is what the user has staged for the next submission
type Pending struct {
	Attachments []Attachment
	Codes       []string
}

func (p Pending) empty() bool {
	return len(p.Attachments) == 0 && len(p.Codes) == 0
}

func (p Pending) clone() Pending {
	out := Pending{}
	if len(p.Attachments) > 0 {
		out.Attachments = append([]Attachment(nil), p.Attachments...)
	}
	if len(p.Codes) > 0 {
		out.Codes = append([]string(nil), p.Codes...)
	}
	return out
}

// Snapshot is a read-only view of the session for renderers
type Snapshot struct {
	State    State
	Offline  bool
	Active   Thread
	Threads  []Thread
	Messages []Message
	Pending  Pending
	Lang     Lang
	Theme    string
}

// ControllerOptions configures a Controller. A nil Sender is built from
// Settings; a nil Feedback sink or Logbook is skipped when a chat ends.
type ControllerOptions struct {
	Store    *Store
	Settings Settings
	Sender   Sender
	Feedback FeedbackSink
	Logbook  *Logbook
	Lang     Lang
	Theme    string
}

// Controller owns the active thread, the staged input and the exchange state
// machine. All state changes are serialized by mu; network calls and file
// reads happen outside it.
type Controller struct {
	mu sync.Mutex

	store    *Store
	registry *Registry
	codec    *Codec
	sender   Sender
	feedback FeedbackSink
	logbook  *Logbook
	settings Settings

	transcripts map[string]*Transcript
	state       State
	pending     Pending
	lang        Lang
	theme       string

	listeners  map[int]func(Snapshot)
	nextListen int

	newID func() string
	now   func() time.Time
}

// NewController loads the registry and makes sure a thread is active
func NewController(opts ControllerOptions) *Controller {
	sender := opts.Sender
	if sender == nil {
		sender = NewSender(opts.Settings)
	}
	lang := opts.Lang
	if lang == "" {
		lang = LangES
	}
	theme := opts.Theme
	if theme == "" {
		theme = "dark"
	}

	c := &Controller{
		store:       opts.Store,
		registry:    NewRegistry(opts.Store),
		codec:       NewCodec(),
		sender:      sender,
		feedback:    opts.Feedback,
		logbook:     opts.Logbook,
		settings:    opts.Settings,
		transcripts: make(map[string]*Transcript),
		lang:        lang,
		theme:       theme,
		listeners:   make(map[int]func(Snapshot)),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	c.registry.SetDefaultTitle(T(lang).NewChat)
	c.registry.EnsureActive()
	return c
}

// Registry exposes the thread index for read-only listing
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Settings returns the settings the controller was built with
func (c *Controller) Settings() Settings {
	return c.settings
}

// Sender returns the backend the controller talks to
func (c *Controller) Sender() Sender {
	return c.sender
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes it.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListen
	c.nextListen++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Snapshot returns the current session view
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the exchange state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetLang changes the language used for new placeholders and titles
func (c *Controller) SetLang(lang Lang) {
	_ = c.update(func() error {
		c.lang = lang
		c.registry.SetDefaultTitle(T(lang).NewChat)
		return nil
	})
}

// SetTheme records the theme forwarded in request metadata
func (c *Controller) SetTheme(theme string) {
	_ = c.update(func() error {
		c.theme = theme
		return nil
	})
}

// Stage adds a built attachment to the pending list
func (c *Controller) Stage(att Attachment) error {
	return c.update(func() error {
		if c.state == StateSending {
			return ErrBusy
		}
		c.pending.Attachments = append(c.pending.Attachments, att)
		return nil
	})
}

// StageFile encodes the file at path and stages it
func (c *Controller) StageFile(ctx context.Context, path string) (Attachment, error) {
	return c.stageEncoded(c.codec.FromFile(ctx, path))
}

// StagePhoto encodes an image file as a captured photo and stages it
func (c *Controller) StagePhoto(ctx context.Context, path string) (Attachment, error) {
	return c.stageEncoded(c.codec.FromImageFile(ctx, path))
}

// StageFrame stages a still frame from a camera
func (c *Controller) StageFrame(frame image.Image) (Attachment, error) {
	return c.stageEncoded(c.codec.FromCapturedImage(frame))
}

// stageEncoded stages a freshly encoded attachment. An encoding failure is
// shown as an assistant message in the active thread and nothing is staged.
func (c *Controller) stageEncoded(att Attachment, err error) (Attachment, error) {
	if err != nil {
		c.recordFailure(err)
		return Attachment{}, err
	}
	return att, c.Stage(att)
}

// recordFailure appends a visible error message to the active transcript.
// While an exchange is in flight the error is only logged, so the
// placeholder stays the last message until it resolves.
func (c *Controller) recordFailure(cause error) {
	_ = c.update(func() error {
		sessionLog.Warnf("Input rejected: %v", cause)
		if c.state == StateSending {
			return nil
		}
		thread := c.registry.EnsureActive()
		c.transcriptLocked(thread.ID).Append(Message{
			ID:        c.newID(),
			Role:      RoleAssistant,
			Content:   T(c.lang).ErrorPrefix + " " + cause.Error(),
			CreatedAt: c.now().UnixMilli(),
		})
		return nil
	})
}

// AddCode stages a scanned QR/barcode value. Blank codes are ignored.
func (c *Controller) AddCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	return c.update(func() error {
		if c.state == StateSending {
			return ErrBusy
		}
		c.pending.Codes = append(c.pending.Codes, code)
		return nil
	})
}

// Unstage removes a pending attachment by id
func (c *Controller) Unstage(id string) error {
	return c.update(func() error {
		if c.state == StateSending {
			return ErrBusy
		}
		for i, a := range c.pending.Attachments {
			if a.ID == id {
				c.pending.Attachments = append(c.pending.Attachments[:i], c.pending.Attachments[i+1:]...)
				return nil
			}
		}
		return &NotFoundError{Kind: "attachment", ID: id}
	})
}

// ClearPending drops every staged attachment and code
func (c *Controller) ClearPending() {
	_ = c.update(func() error {
		c.pending = Pending{}
		return nil
	})
}

// Submit records the user message and a placeholder reply, then returns the
// handle that must be resolved with the backend's outcome
func (c *Controller) Submit(ctx context.Context, text string) (*PendingExchange, error) {
	var p *PendingExchange
	err := c.update(func() error {
		if c.state == StateSending {
			return ErrBusy
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" && c.pending.empty() {
			return ErrEmptySubmission
		}

		thread := c.registry.EnsureActive()
		tr := c.transcriptLocked(thread.ID)
		staged := c.pending.clone()
		now := c.now().UnixMilli()

		user := Message{
			ID:          c.newID(),
			Role:        RoleUser,
			Content:     composeContent(trimmed, staged.Codes),
			Attachments: staged.Attachments,
			CreatedAt:   now,
		}
		placeholder := Message{
			ID:        c.newID(),
			Role:      RoleAssistant,
			Content:   T(c.lang).Thinking,
			CreatedAt: now,
		}
		tr.Append(user, placeholder)

		p = &PendingExchange{
			c:             c,
			ThreadID:      thread.ID,
			Request:       c.buildRequestLocked(thread.ID, trimmed, tr, staged),
			index:         tr.Len() - 1,
			placeholderID: placeholder.ID,
			titleHint:     titleHint(trimmed, staged),
		}
		c.state = StateSending
		sessionLog.Debugf("Submitted exchange on thread %s", thread.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Send submits text, waits for the backend and resolves the exchange. A
// backend failure is returned after it has been recorded in the transcript.
func (c *Controller) Send(ctx context.Context, text string) (Message, error) {
	p, err := c.Submit(ctx, text)
	if err != nil {
		return Message{}, err
	}

	reply, sendErr := c.sender.Send(ctx, p.Request)
	if sendErr != nil {
		if err := p.Fail(sendErr); err != nil {
			return Message{}, err
		}
		return p.Result(), sendErr
	}
	if err := p.Resolve(reply); err != nil {
		return Message{}, err
	}
	return p.Result(), nil
}

// NewThread creates an empty thread and makes it active
func (c *Controller) NewThread() Thread {
	var t Thread
	_ = c.update(func() error {
		t = c.registry.CreateThread("")
		c.transcripts[t.ID] = LoadTranscript(c.store, t.ID)
		return c.registry.SetActive(t.ID)
	})
	return t
}

// SelectThread activates id and reloads its transcript from the store
func (c *Controller) SelectThread(id string) error {
	err := c.update(func() error {
		if err := c.registry.SetActive(id); err != nil {
			return err
		}
		c.transcripts[id] = LoadTranscript(c.store, id)
		return nil
	})
	if err != nil {
		sessionLog.Errorf("Failed to select thread: %v", err)
	}
	return err
}

// DeleteThread removes a thread and its transcript
func (c *Controller) DeleteThread(id string) error {
	err := c.update(func() error {
		if err := c.registry.DeleteThread(id); err != nil {
			return err
		}
		delete(c.transcripts, id)
		return nil
	})
	if err != nil {
		sessionLog.Errorf("Failed to delete thread: %v", err)
	}
	return err
}

// RenameThread applies a user-edited title
func (c *Controller) RenameThread(id, title string) error {
	err := c.update(func() error {
		return c.registry.Rename(id, title)
	})
	if err != nil {
		sessionLog.Errorf("Failed to rename thread: %v", err)
	}
	return err
}

// Messages returns the transcript of a thread
func (c *Controller) Messages(id string) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.registry.Get(id); err != nil {
		return nil, err
	}
	return c.transcriptLocked(id).Messages(), nil
}

// Conversation returns a thread together with its transcript
func (c *Controller) Conversation(id string) (*Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return &Conversation{Thread: t, Messages: c.transcriptLocked(id).Messages()}, nil
}

// update runs fn under the lock and notifies listeners when it succeeds
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	active := c.registry.EnsureActive()
	return Snapshot{
		State:    c.state,
		Offline:  c.settings.Offline(),
		Active:   active,
		Threads:  c.registry.ListRecent(0),
		Messages: c.transcriptLocked(active.ID).Messages(),
		Pending:  c.pending.clone(),
		Lang:     c.lang,
		Theme:    c.theme,
	}
}

func (c *Controller) transcriptLocked(id string) *Transcript {
	tr, ok := c.transcripts[id]
	if !ok {
		tr = LoadTranscript(c.store, id)
		c.transcripts[id] = tr
	}
	return tr
}

func (c *Controller) buildRequestLocked(threadID, text string, tr *Transcript, staged Pending) *Request {
	// the placeholder is the last element and is not part of the history
	recent := tr.TruncatedHistory(c.settings.Limit() + 1)
	recent = recent[:len(recent)-1]
	history := make([]Message, len(recent))
	for i, m := range recent {
		history[i] = m.withoutPayload()
	}

	attachments := make([]OutboundAttachment, len(staged.Attachments))
	for i, a := range staged.Attachments {
		attachments[i] = OutboundAttachment{ID: a.ID, Name: a.Name, MIME: a.MIME, DataURL: a.DataURL}
	}
	codes := make([]string, len(staged.Codes))
	copy(codes, staged.Codes)

	return &Request{
		ThreadID:    threadID,
		Message:     text,
		History:     history,
		Attachments: attachments,
		QR:          codes,
		Meta: RequestMeta{
			Lang:  string(c.lang),
			Theme: c.theme,
			TS:    c.now().UnixMilli(),
		},
	}
}
