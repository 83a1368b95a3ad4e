// Package reqctx carries per-request diagnostics (correlation id, timing) through a context.
package reqctx

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type scopeKey struct{}

// Scope identifies one request across every log line it produces.
type Scope struct {
	ID      string
	started time.Time
}

// New returns a Scope with the given correlation id, or a fresh uuid when id is empty.
func New(id string) *Scope {
	if id == "" {
		id = uuid.NewString()
	}
	return &Scope{ID: id, started: time.Now()}
}

func With(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// From returns the Scope stored in ctx. A context without one gets a new
// detached Scope so callers never need a nil check.
func From(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok && s != nil {
		return s
	}
	return New("")
}

// Ensure returns ctx carrying a Scope, attaching a new one if none is present.
func Ensure(ctx context.Context) (context.Context, *Scope) {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok && s != nil {
		return ctx, s
	}
	s := New("")
	return With(ctx, s), s
}

func (s *Scope) Logf(format string, args ...any) {
	log.Printf("[%s] %s", s.ID, fmt.Sprintf(format, args...))
}

// Time logs the elapsed time for label when the returned func is called.
func (s *Scope) Time(label string) func() {
	start := time.Now()
	return func() {
		s.Logf("%s: %s", label, time.Since(start).Round(time.Microsecond))
	}
}

// Elapsed reports the time since the Scope was created.
func (s *Scope) Elapsed() time.Duration {
	return time.Since(s.started)
}
