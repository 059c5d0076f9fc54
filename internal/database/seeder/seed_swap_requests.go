package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

type SwapRequestsSeeder struct{}

func (SwapRequestsSeeder) Name() string { return "swap_requests" }

// Run opens the demo requests. A pair that already has a pending request is
// left alone.
func (SwapRequestsSeeder) Run(ctx context.Context, s Stores) error {
	now := time.Now().UTC()
	for _, dr := range demoRequests {
		sender, err := s.Users.GetByEmail(ctx, dr.SenderEmail)
		if err != nil {
			return fmt.Errorf("sender %s: %w", dr.SenderEmail, err)
		}
		receiver, err := s.Users.GetByEmail(ctx, dr.ReceiverEmail)
		if err != nil {
			return fmt.Errorf("receiver %s: %w", dr.ReceiverEmail, err)
		}

		pending, err := s.SwapRequests.ExistsPending(ctx, sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		if pending {
			continue
		}

		err = s.SwapRequests.Create(ctx, swap.Request{
			ID:           uuid.New(),
			SenderID:     sender.ID,
			ReceiverID:   receiver.ID,
			OfferedSkill: dr.OfferedSkill,
			WantedSkill:  dr.WantedSkill,
			Message:      dr.Message,
			Status:       swap.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, swap.ErrDuplicatePending) {
			return err
		}
	}
	return nil
}
