package internal

import (
	"context"
	"time"
)

const (
	// DemoReplyText is the fixed answer of the offline stand-in
	DemoReplyText = "(Demo) No backend endpoint is configured. This is where the RAG answer would go."

	defaultStandInDelay = 500 * time.Millisecond
)

// DemoCitation is the single citation attached to every stand-in answer
var DemoCitation = Citation{N: 1, Title: "Sample document", URL: "https://example.com"}

// StandIn answers locally when no backend is configured
type StandIn struct {
	Delay time.Duration
}

// NewStandIn creates a stand-in with the default artificial delay
func NewStandIn() *StandIn {
	return &StandIn{Delay: defaultStandInDelay}
}

// Send waits Delay and returns the demo answer
func (s *StandIn) Send(ctx context.Context, req *Request) (*Reply, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Reply{
		Text:      DemoReplyText,
		Citations: []Citation{DemoCitation},
	}, nil
}
