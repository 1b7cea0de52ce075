package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context implementation used by New()
// when no WithContextFactory option is supplied.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

// newContext builds the default Context for one request.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{w: w, r: r, params: params}
}

// Request implements handler.Context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter implements handler.Context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param implements handler.Context.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetValue implements handler.Context. It stores val in the underlying
// request's context so later Value calls on either Context or r.Context()
// observe it.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Deadline implements context.Context by delegating to the request context.
func (c *Context) Deadline() (time.Time, bool) {
	return c.r.Context().Deadline()
}

// Done implements context.Context by delegating to the request context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err implements context.Context by delegating to the request context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value implements context.Context by delegating to the request context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}
