package llm

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/matzehuels/archsketch/pkg/proposal"
)

// Static returns a fixed response. It backs offline use (--provider static)
// and tests.
type Static struct {
	Text string
	Err  error

	// Gate, if set, blocks Generate until it is closed or ctx is done.
	Gate <-chan struct{}

	mu       sync.Mutex
	requests []Request
}

// NewStaticPayload returns a Static that answers with p encoded as JSON.
func NewStaticPayload(p proposal.Payload) *Static {
	data, _ := json.Marshal(p)
	return &Static{Text: string(data)}
}

// Name returns "static".
func (s *Static) Name() string { return "static" }

// Generate implements [Generator].
func (s *Static) Generate(ctx context.Context, req Request) (Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return Response{}, serviceError("static", ctx.Err())
		}
	}
	if s.Err != nil {
		return Response{}, s.Err
	}
	emit(req, s.Text)
	return Response{Text: s.Text, Structured: req.Mode != ModeText}, nil
}

// Requests returns the requests received so far.
func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

var _ Generator = (*Static)(nil)
