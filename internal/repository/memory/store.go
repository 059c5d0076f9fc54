// Package memory keeps users and swap requests in process memory. It backs
// STORAGE_DRIVER=memory and the usecase and handler tests.
package memory

import (
	"context"
	"sync"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users     map[uuid.UUID]user.User
	userOrder []uuid.UUID

	requests     map[uuid.UUID]swap.Request
	requestOrder []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		users:    map[uuid.UUID]user.User{},
		requests: map[uuid.UUID]swap.Request{},
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) SwapRequests() *SwapRequestRepository {
	return &SwapRequestRepository{s: s}
}

// Ping fails only when ctx is done. It lets the store stand in for the
// database in the dependency health check.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u user.User) user.User {
	u.SkillsOffered = cloneStrings(u.SkillsOffered)
	u.SkillsWanted = cloneStrings(u.SkillsWanted)
	u.ProfilePhoto = clonePtr(u.ProfilePhoto)
	return u
}
