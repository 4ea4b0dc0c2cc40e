package appctx

import (
	"context"

	"mcpanel/models"
)

// Context key for storing request-scoped values
type contextKey string

const (
	IdentityContextKey  contextKey = "identity"
	SessionIDContextKey contextKey = "session_id"
)

// SetIdentity adds the authenticated identity to the request context
func SetIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// GetIdentity extracts the authenticated identity from the request context
func GetIdentity(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*models.Identity)
	return identity, ok && identity != nil
}

// SetSessionID adds the session token id (jti) to the request context
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDContextKey, sessionID)
}

// GetSessionID extracts the session token id from the request context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDContextKey).(string)
	return sessionID, ok && sessionID != ""
}
