package seeder

import (
	"context"
	"errors"
	"fmt"

	"skill-swap/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Log     *logger.Logger
}

func (r Runner) Run(ctx context.Context, s Stores) error {
	if s.Users == nil || s.SwapRequests == nil {
		return errors.New("seeder: nil repository")
	}
	for _, sd := range r.Seeders {
		if sd == nil {
			continue
		}
		if err := sd.Run(ctx, s); err != nil {
			return fmt.Errorf("seed %s: %w", sd.Name(), err)
		}
		r.Log.Info("seeded", map[string]string{"seeder": sd.Name()})
	}
	return nil
}
