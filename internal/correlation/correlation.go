package correlation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// maxIDLength bounds inbound correlation ids so hostile clients cannot
// inflate log records or response headers.
const maxIDLength = 128

// Context carries the per-request identity and timing token. It is
// owned by exactly one in-flight request and never shared, so no
// locking is needed.
type Context struct {
	ID    string
	Start time.Time
}

// Begin starts a correlation context. A well-formed inbound id is
// reused; anything else is replaced with a fresh UUID.
func Begin(incomingID string) *Context {
	id := incomingID
	if !validID(id) {
		id = uuid.NewString()
	}
	return &Context{ID: id, Start: time.Now()}
}

// Elapsed returns the wall-clock time since Begin.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.Start)
}

func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		// Graphic ASCII only; rejects control characters that could
		// split log lines or headers.
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}

type ctxKey struct{}

// NewContext returns a copy of parent carrying the correlation context.
func NewContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, ctxKey{}, c)
}

// FromContext extracts the correlation context, or nil when absent.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(ctxKey{}).(*Context)
	return c
}

// IDFromContext extracts just the correlation id, or "" when absent.
func IDFromContext(ctx context.Context) string {
	if c := FromContext(ctx); c != nil {
		return c.ID
	}
	return ""
}
