// Package requestid carries the per-request correlation ID through a context
package requestid

import "context"

type contextKey struct{}

// Unknown is reported when the context carries no request ID
const Unknown = "unknown"

// NewContext returns a copy of ctx carrying id
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID stored in ctx, or Unknown
func FromContext(ctx context.Context) string {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return Unknown
	}
	return id
}
