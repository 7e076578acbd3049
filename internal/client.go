package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const (
	bodyExcerptLength = 200
	maxResponseBytes  = 10 << 20

	// EmptyReply replaces a missing or blank reply
	EmptyReply = "(empty response)"
)

// Request is the payload posted to the RAG backend
type Request struct {
	ThreadID    string               `json:"threadId"`
	Message     string               `json:"message"`
	History     []Message            `json:"history"`
	Attachments []OutboundAttachment `json:"attachments"`
	QR          []string             `json:"qr"`
	Meta        RequestMeta          `json:"meta"`
}

// OutboundAttachment is the wire form of an attachment
type OutboundAttachment struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	DataURL string `json:"dataUrl"`
}

// RequestMeta carries presentation context the backend may use
type RequestMeta struct {
	Lang  string `json:"lang"`
	Theme string `json:"theme"`
	TS    int64  `json:"ts"`
}

// Reply is a normalized backend answer
type Reply struct {
	Text           string
	Citations      []Citation
	SuggestedTitle string
}

// Sender sends one exchange to a backend
type Sender interface {
	Send(ctx context.Context, req *Request) (*Reply, error)
}

// NewSender returns the HTTP client, or the offline stand-in when no endpoint is configured
func NewSender(s Settings) Sender {
	if s.Offline() {
		clientLog.Infof("%v, answering with the offline stand-in", &ConfigError{Field: "endpoint"})
		return NewStandIn()
	}
	if s.Streaming {
		clientLog.Debugf("Streaming is enabled in settings but the backend is called in request/response mode")
	}
	return NewClient(s)
}

// Client posts exchanges to the configured endpoint
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client from settings
func NewClient(s Settings) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(s.Endpoint),
		apiKey:     s.APIKey,
		timeout:    s.Timeout(),
		httpClient: &http.Client{},
	}
}

// Send posts req and normalizes the response
func (c *Client) Send(ctx context.Context, req *Request) (*Reply, error) {
	if c.endpoint == "" {
		return nil, &ConfigError{Field: "endpoint"}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	clientLog.Debugf("POST %s (thread %s, %d history, %d attachments)", c.endpoint, req.ThreadID, len(req.History), len(req.Attachments))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, BodyExcerpt: excerpt(body)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return nil, &ProtocolError{ContentType: contentType}
	}

	return DecodeReply(body, contentType)
}

func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{After: c.timeout.String(), Err: err}
	}
	return fmt.Errorf("request failed: %w", err)
}

type wireReply struct {
	Reply       *string         `json:"reply"`
	Answer      *string         `json:"answer"`
	Citations   json.RawMessage `json:"citations"`
	ThreadTitle string          `json:"threadTitle"`
}

type wireCitation struct {
	N     *int   `json:"n"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DecodeReply validates and normalizes a JSON response body
func DecodeReply(body []byte, contentType string) (*Reply, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Reply{Text: EmptyReply, Citations: []Citation{}}, nil
	}

	var wire wireReply
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ProtocolError{ContentType: contentType, Err: err}
	}

	reply := &Reply{
		Text:           EmptyReply,
		Citations:      normalizeCitations(wire.Citations),
		SuggestedTitle: strings.TrimSpace(wire.ThreadTitle),
	}
	switch {
	case wire.Reply != nil && strings.TrimSpace(*wire.Reply) != "":
		reply.Text = *wire.Reply
	case wire.Answer != nil && strings.TrimSpace(*wire.Answer) != "":
		reply.Text = *wire.Answer
	}
	return reply, nil
}

// normalizeCitations tolerates a missing or non-array field and numbers
// citations by position when the server omits n
func normalizeCitations(raw json.RawMessage) []Citation {
	citations := []Citation{}
	if len(raw) == 0 {
		return citations
	}
	var wire []wireCitation
	if err := json.Unmarshal(raw, &wire); err != nil {
		clientLog.Debugf("Ignoring malformed citations: %v", err)
		return citations
	}
	for i, w := range wire {
		if strings.TrimSpace(w.URL) == "" {
			continue
		}
		n := i + 1
		if w.N != nil {
			n = *w.N
		}
		citations = append(citations, Citation{N: n, URL: w.URL, Title: w.Title})
	}
	return citations
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func excerpt(body []byte) string {
	runes := []rune(strings.TrimSpace(string(body)))
	if len(runes) > bodyExcerptLength {
		runes = runes[:bodyExcerptLength]
	}
	return string(runes)
}
