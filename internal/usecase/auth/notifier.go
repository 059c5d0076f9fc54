package auth

import (
	"context"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/logger"
)

// ResetNotifier delivers a password reset link to a user.
type ResetNotifier interface {
	SendResetLink(ctx context.Context, u user.User, link string) error
}

// LogNotifier writes reset links to the log instead of sending mail.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendResetLink(_ context.Context, u user.User, link string) error {
	n.log.Info("password reset link issued", map[string]string{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"link":    link,
	})
	return nil
}
