package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// ListPublic returns one page of public users, newest first, and the
	// total number of matches.
	ListPublic(ctx context.Context, f DirectoryFilter) ([]User, int, error)
}
