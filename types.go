package accounts

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the services need.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// RequestContext carries the pieces of the inbound request needed to
// build absolute links in outgoing mail. Controllers fill it from the
// HTTP layer; the core never sees the request itself.
type RequestContext struct {
	Host        string
	Port        int
	ContextPath string
}

// ApplicationURL renders the base URL links are built from.
func (r RequestContext) ApplicationURL() string {
	return fmt.Sprintf("http://%s:%d%s", r.Host, r.Port, r.ContextPath)
}

// IdentityListener is notified when a persisted identity attribute of
// the currently authenticated user changes, so the session layer can
// refresh its cached principal. Session handling itself lives outside
// the core.
type IdentityListener interface {
	OnUserIdentityChanged(ctx context.Context, user *User)
}

// IdentityListenerFunc adapts a function to IdentityListener.
type IdentityListenerFunc func(ctx context.Context, user *User)

// OnUserIdentityChanged implements IdentityListener.
func (f IdentityListenerFunc) OnUserIdentityChanged(ctx context.Context, user *User) {
	if f != nil {
		f(ctx, user)
	}
}

type noopIdentityListener struct{}

func (noopIdentityListener) OnUserIdentityChanged(context.Context, *User) {}

func normalizeIdentityListener(l IdentityListener) IdentityListener {
	if l == nil {
		return noopIdentityListener{}
	}
	return l
}
