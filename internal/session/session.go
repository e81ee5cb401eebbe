// Package session carries the authenticated identity through a request context.
package session

import (
	"context"

	"github.com/hongminglow/care-admin/internal/models"
)

type contextKey int

const (
	ctxUser      contextKey = iota // *models.User — authenticated identity
	ctxRequestID                   // string — request correlation id
)

// WithUser returns a copy of ctx carrying user. A nil user marks the request unauthenticated.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

// User returns the identity stored in ctx, or nil when the request is unauthenticated.
func User(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxUser).(*models.User)
	return user
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}
