package router

import (
	"context"
	"sync"
	"time"
)

// Fragment is one incrementally delivered piece of generated text. Fragments
// arrive in generation order; their concatenation reconstructs the complete
// message.
type Fragment struct {
	Index int
	Text  string
}

// Result summarizes a completed generation.
type Result struct {
	Text        string
	InputChars  int
	OutputChars int
	Cost        float64
	Latency     time.Duration
}

// Stream is a finite, non-restartable fragment sequence. Consumers drain
// Fragments until it is closed, then inspect Err and Result. Cancel marks the
// stream superseded; the producer stops and no further fragments are sent.
type Stream struct {
	ch     chan Fragment
	cancel context.CancelFunc

	mu     sync.Mutex
	err    error
	result Result
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		ch:     make(chan Fragment),
		cancel: cancel,
	}
}

// Fragments returns the fragment channel. It is closed when generation
// completes, fails, or is cancelled.
func (s *Stream) Fragments() <-chan Fragment { return s.ch }

// Err reports the terminal error, valid once Fragments is closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Result reports the completed generation summary, valid once Fragments is
// closed without error.
func (s *Stream) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Cancel stops the producer. Already-delivered fragments stay delivered; a
// cancelled stream cannot be restarted, a new request must be issued.
func (s *Stream) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Stream) finish(result Result) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}
