package seeder

import (
	"context"
	"errors"
	"time"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct {
	BcryptCost int
}

func (UsersSeeder) Name() string { return "users" }

// Run creates the demo accounts that do not exist yet.
func (sd UsersSeeder) Run(ctx context.Context, s Stores) error {
	cost := sd.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, du := range demoUsers {
		exists, err := s.Users.ExistsByEmail(ctx, du.Email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		at := now.Add(time.Duration(i) * time.Second)
		err = s.Users.Create(ctx, user.User{
			ID:            uuid.New(),
			Name:          du.Name,
			Email:         du.Email,
			PasswordHash:  string(hash),
			Location:      du.Location,
			SkillsOffered: du.SkillsOffered,
			SkillsWanted:  du.SkillsWanted,
			Availability:  du.Availability,
			IsPublic:      true,
			CreatedAt:     at,
			UpdatedAt:     at,
		})
		if err != nil && !errors.Is(err, user.ErrEmailTaken) {
			return err
		}
	}
	return nil
}
