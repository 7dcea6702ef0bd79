package context

import "context"

type csrfKey struct{}

// NewContextWithCSRFToken stores the request's CSRF token for form rendering.
func NewContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey{}, token)
}

func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}
