// Package domain provides core business types, errors, status machines, and
// context helpers shared by every layer of the service.
//
// Context helpers centralize request-scoped data access so caller identity and
// request tracing follow one pattern throughout the codebase.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated caller in context.
	userContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey

	// requestMetaContextKey stores request metadata for audit trails.
	requestMetaContextKey
)

// User represents the authenticated caller stored in context.
// This is a minimal struct for context storage - the full user
// record can be fetched from the database if needed.
type User struct {
	ID    uuid.UUID
	Email string
	Role  string // "customer", "staff", "admin"
}

// IsStaff reports whether the user may perform back-office operations.
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == "staff" || u.Role == "admin")
}

// RequestMeta carries caller address and agent string for audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// NewContextWithUser returns a new context with the caller attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the caller from context.
// Returns nil if no caller is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext retrieves the caller's ID from context.
// Returns uuid.Nil if no caller is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns an empty string if none is present.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// NewContextWithRequestMeta returns a new context with request metadata attached.
func NewContextWithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaContextKey, meta)
}

// RequestMetaFromContext retrieves request metadata from context.
// Returns nil if none is present.
func RequestMetaFromContext(ctx context.Context) *RequestMeta {
	meta, _ := ctx.Value(requestMetaContextKey).(*RequestMeta)
	return meta
}
