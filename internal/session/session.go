package session

import "context"

// Session identifies one storefront visitor: the cart owner plus the opaque
// bearer credential forwarded to the commerce backend. The credential is never
// inspected beyond prefill claims; the auth provider owns its semantics.
type Session struct {
	ID    string
	Token string
	Email string
	Name  string
}

type ctxKey struct{}

// WithSession attaches the session to the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// Token extracts the bearer credential, empty when anonymous.
func Token(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.Token
}
