// Package usecase declares the application services the HTTP layer talks
// to. Implementations live in the subpackages.
package usecase

import (
	"context"
	"io"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	ucauth "skill-swap/internal/usecase/auth"
	ucswap "skill-swap/internal/usecase/swap"
	ucupload "skill-swap/internal/usecase/upload"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/google/uuid"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (ucauth.Result, error)
	Login(ctx context.Context, in ucauth.LoginInput) (ucauth.Result, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (user.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ucauth.ResetPasswordInput) error
	TokenTTL() time.Duration
}

type ProfileUsecase interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
}

type DirectoryUsecase interface {
	ListPublic(ctx context.Context, q ucuser.DirectoryQuery) (ucuser.DirectoryPage, error)
}

type SwapRequestUsecase interface {
	Create(ctx context.Context, senderID uuid.UUID, in ucswap.CreateInput) (swap.Request, error)
	List(ctx context.Context, userID uuid.UUID, in ucswap.ListInput) ([]swap.View, error)
	Transition(ctx context.Context, userID uuid.UUID, in ucswap.TransitionInput) (swap.Request, error)
	Delete(ctx context.Context, userID uuid.UUID, rawID string) error
}

type UploadUsecase interface {
	Store(ctx context.Context, originalName, contentType string, r io.Reader) (string, error)
}

var (
	_ AuthUsecase        = (*ucauth.Service)(nil)
	_ ProfileUsecase     = (*ucuser.Service)(nil)
	_ DirectoryUsecase   = (*ucuser.Directory)(nil)
	_ SwapRequestUsecase = (*ucswap.Service)(nil)
	_ UploadUsecase      = (*ucupload.Service)(nil)
)
