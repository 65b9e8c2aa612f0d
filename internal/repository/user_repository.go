package repository

import (
	"context"
	"errors"

	"userauth/internal/model"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a user with the same email already exists.
	ErrDuplicate = errors.New("user already exists")
)

// UserRepository defines persistence operations.
//
// Lookups never load the password hash unless asked to.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string, includePassword bool) (*model.User, error)
}
