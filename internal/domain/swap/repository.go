package swap

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("swap request not found")
	ErrNotPending       = errors.New("swap request is not pending")
	ErrDuplicatePending = errors.New("pending swap request already exists")
)

type Repository interface {
	Create(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id uuid.UUID) (Request, error)
	ExistsPending(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error)
	List(ctx context.Context, f ListFilter) ([]View, error)

	// UpdateStatusIfPending moves a pending request to status in a single
	// conditional write. It returns ErrNotPending when the request exists
	// but was already resolved.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status, at time.Time) (Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
