package auth

import (
	"context"
	"errors"
)

// AdminUserID is the only identity allowed through RequireAdmin.
const AdminUserID int64 = 1

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Identity is the resolved caller. The zero value is the anonymous caller.
type Identity struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

func (i Identity) IsAdmin() bool {
	return i.UserID == AdminUserID
}

func RequireAuthenticated(i Identity) error {
	if !i.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin rejects everyone but the admin user, anonymous callers included.
func RequireAdmin(i Identity) error {
	if !i.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

type ctxKey string

const ctxIdentity ctxKey = "identity"

func WithIdentity(ctx context.Context, i Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, i)
}

// FromContext returns the caller stored by WithIdentity, or the anonymous identity.
func FromContext(ctx context.Context) Identity {
	if v, ok := ctx.Value(ctxIdentity).(Identity); ok {
		return v
	}
	return Identity{}
}
