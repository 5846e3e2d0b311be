// Package mocks provides in-memory Otel doubles for tests.
package mocks

import (
	"context"
	"jumuia/infras/otel"
	"sync"
)

// Recorder is an Otel that remembers every span it opened and the errors traced on it.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

// NewOtel returns a recorder; callers that do not inspect spans can ignore the type.
func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	r.spans = append(r.spans, spanName)
	r.mu.Unlock()

	return ctx, &scope{recorder: r}
}

// Spans returns the names of opened spans in order.
func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

// Errors returns the errors traced on any span.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

type scope struct {
	recorder *Recorder
}

func (s *scope) End() {}

func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	s.recorder.errors = append(s.recorder.errors, err)
	s.recorder.mu.Unlock()
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scope) AddEvent(_ string) {}

func (s *scope) SetAttribute(_ string, _ any) {}

func (s *scope) SetAttributes(_ map[string]any) {}
