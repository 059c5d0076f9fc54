// Package seeder fills an empty store with demo users and swap requests for
// local development.
package seeder

import (
	"context"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
)

type Stores struct {
	Users        user.Repository
	SwapRequests swap.Repository
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, s Stores) error
}
