package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	identityKey  ctxKey = "identity"
	requestIDKey ctxKey = "request_id"
)

// RoleAdmin is the role allowed to run ledger recovery and rollover commands.
const RoleAdmin = "admin"

// Identity is an already-authenticated operator.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// WithIdentity stores the authenticated operator in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx extracts the operator from the context.
// Returns false if the value is missing, has a nil ID, or has the wrong type.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.ID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

// UserIDFromCtx extracts the operator ID from the context.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromCtx(ctx)
	return id.ID, ok
}

// IsAdminCtx reports whether the context carries an admin operator.
func IsAdminCtx(ctx context.Context) bool {
	id, ok := IdentityFromCtx(ctx)
	return ok && id.Role == RoleAdmin
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
