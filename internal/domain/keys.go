package domain

import "context"

type CtxKey string

const (
	// KeyClientID identifies the browser instance that owns a session and a
	// bookmark set. An empty client id addresses the default client.
	KeyClientID CtxKey = "ClientID"
	KeyUserID   CtxKey = "UserID"
	KeyUserRole CtxKey = "Role"
)

// WithClientID returns a context scoped to the given client.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, KeyClientID, clientID)
}

// ClientIDFromContext returns the client id, or "" for the default client.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyClientID).(string)
	return id
}
