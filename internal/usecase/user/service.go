package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/usecase/ucerr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = ucerr.ErrInvalidInput
	ErrInternal     = ucerr.ErrInternal
)

// PhotoStore persists a profile photo and returns its access path.
type PhotoStore interface {
	Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

type DirectoryInvalidator interface {
	InvalidateDirectory(ctx context.Context) error
}

type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UpdateProfileInput replaces every owner-mutable field. A nil IsPublic
// means public. A nil Photo keeps the current one.
type UpdateProfileInput struct {
	Name          string
	Location      string
	Availability  string
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      *bool
	Photo         *Photo
}

type Service struct {
	users     user.Repository
	photos    PhotoStore
	directory DirectoryInvalidator
	log       *logger.Logger
}

func NewService(users user.Repository, photos PhotoStore, directory DirectoryInvalidator, log *logger.Logger) *Service {
	return &Service{users: users, photos: photos, directory: directory, log: log}
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)

	switch {
	case name == "":
		return user.User{}, ucerr.Required("name")
	case location == "":
		return user.User{}, ucerr.Required("location")
	case strings.TrimSpace(in.Availability) == "":
		return user.User{}, ucerr.Required("availability")
	case in.SkillsOffered == nil:
		return user.User{}, ucerr.Required("skillsOffered")
	case in.SkillsWanted == nil:
		return user.User{}, ucerr.Required("skillsWanted")
	}
	avail, ok := user.ParseAvailability(in.Availability)
	if !ok {
		return user.User{}, ucerr.NewFieldError("availability", "oneof", "Availability must be one of Weekends, Evenings, Flexible")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	upd := user.ProfileUpdate{
		Name:          name,
		Location:      location,
		Availability:  avail,
		SkillsOffered: in.SkillsOffered,
		SkillsWanted:  in.SkillsWanted,
		IsPublic:      in.IsPublic == nil || *in.IsPublic,
	}

	if in.Photo != nil {
		if s.photos == nil {
			return user.User{}, fmt.Errorf("%w: no photo store", ErrInternal)
		}
		p, err := s.photos.Store(ctx, in.Photo.Filename, in.Photo.ContentType, in.Photo.Body)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		upd.ProfilePhoto = &p
	}

	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if s.directory != nil {
		if err := s.directory.InvalidateDirectory(ctx); err != nil {
			s.log.Warn("directory cache invalidation failed", map[string]string{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	}

	u.PasswordHash = ""
	return u, nil
}
