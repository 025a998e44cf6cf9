package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/user"
)

var (
	ErrEmailNotFound          = errors.New("email not found")
	ErrBadPassword            = errors.New("password incorrect")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrMissingCredentials     = errors.New("email and password are required")
)

// Gate resolves and establishes caller identities.
type Gate struct {
	users  user.Repository
	hasher *PasswordHasher
}

func NewGate(users user.Repository, hasher *PasswordHasher) *Gate {
	return &Gate{users: users, hasher: hasher}
}

// Login checks the credentials and returns the identity to store in the session.
func (g *Gate) Login(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, ErrEmailNotFound
		}
		return Identity{}, err
	}
	if !g.hasher.Verify(u.PasswordHash, password) {
		return Identity{}, ErrBadPassword
	}
	return Identity{UserID: u.ID, Email: u.Email}, nil
}

// Register creates the user and returns its identity; the caller is logged in
// straight away.
func (g *Gate) Register(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Identity{}, ErrMissingCredentials
	}

	if _, err := g.users.GetByEmail(ctx, email); err == nil {
		return Identity{}, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, user.ErrNotFound) {
		return Identity{}, err
	}

	hash, err := g.hasher.Hash(password)
	if err != nil {
		return Identity{}, err
	}
	u, err := g.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Identity{}, ErrEmailAlreadyRegistered
		}
		return Identity{}, err
	}
	return Identity{UserID: u.ID, Email: u.Email}, nil
}

// Resolve loads the identity for a session's user id. A user that no longer
// exists resolves to the anonymous identity.
func (g *Gate) Resolve(ctx context.Context, userID int64) (Identity, error) {
	if userID == 0 {
		return Identity{}, nil
	}
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, nil
		}
		return Identity{}, err
	}
	return Identity{UserID: u.ID, Email: u.Email}, nil
}
