package generate

import (
	"context"
	"sync"

	"github.com/roach88/designrail/internal/card"
)

// Static replays canned responses in order. Each response is raw JSON run
// through the same validation as a live reply, or an error returned as a
// *GenerationError. The last response repeats once the list is exhausted.
//
// Safe for concurrent use.
type Static struct {
	mu        sync.Mutex
	finisher  *Finisher
	responses []Response
	next      int
	requests  []Request
}

// Response is one canned generator reply.
type Response struct {
	JSON string
	Err  error
}

// NewStatic creates a Static generator.
func NewStatic(f *Finisher, responses ...Response) *Static {
	return &Static{finisher: f, responses: responses}
}

// Generate returns the next canned response.
func (s *Static) Generate(ctx context.Context, req Request) (card.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Message: "request abandoned", Err: err}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		s.mu.Unlock()
		return nil, &GenerationError{Message: "no canned response"}
	}
	r := s.responses[min(s.next, len(s.responses)-1)]
	s.next++
	s.mu.Unlock()

	if r.Err != nil {
		return nil, &GenerationError{Message: "canned failure", Err: r.Err}
	}
	return s.finisher.Finish(req, []byte(r.JSON))
}

// Requests returns every request received so far.
func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
