// Package context carries request-scoped correlation identifiers without
// creating import cycles between the HTTP layer and the services.
package context

import "context"

type requestIDKey struct{}
type actorKey struct{}

type actor struct {
	id   string
	name string
}

// WithRequestID stores the request correlation ID on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request correlation ID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// WithActor stores the authenticated user acting on this request.
func WithActor(ctx context.Context, id, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{id: id, name: name})
}

// ActorFromContext returns the acting user's id and display name.
func ActorFromContext(ctx context.Context) (id, name string) {
	if ctx == nil {
		return "", ""
	}
	if value, ok := ctx.Value(actorKey{}).(actor); ok {
		return value.id, value.name
	}
	return "", ""
}
