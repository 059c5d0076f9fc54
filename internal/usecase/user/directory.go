package user

import (
	"context"
	"fmt"
	"time"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DirectoryQuery is a directory page request. ViewerID, when set, is left
// out of the results.
type DirectoryQuery struct {
	Search       string
	Availability string
	Page         int
	Limit        int
	ViewerID     uuid.UUID
}

type DirectoryPage struct {
	Users      []user.User `json:"users"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
}

type Directory struct {
	users user.Repository
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewDirectory(users user.Repository, cache Cache, ttl time.Duration, log *logger.Logger) *Directory {
	return &Directory{users: users, cache: cache, ttl: ttl, log: log}
}

func (d *Directory) ListPublic(ctx context.Context, q DirectoryQuery) (DirectoryPage, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	key := DirectoryCacheKey(q)
	if d.cache != nil {
		var cached DirectoryPage
		hit, err := d.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	users, total, err := d.users.ListPublic(ctx, user.DirectoryFilter{
		Search:       q.Search,
		Availability: q.Availability,
		Page:         q.Page,
		Limit:        q.Limit,
		ExcludeID:    q.ViewerID,
	})
	if err != nil {
		return DirectoryPage{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}

	page := DirectoryPage{
		Users:      users,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: user.TotalPages(total, q.Limit),
	}

	if d.cache != nil {
		if err := d.cache.SetJSON(ctx, key, page, d.ttl); err != nil {
			d.log.Debug("directory cache write failed", map[string]string{"key": key, "error": err.Error()})
		}
	}
	return page, nil
}

// InvalidateDirectory drops every cached directory page.
func (d *Directory) InvalidateDirectory(ctx context.Context) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.DeleteByPattern(ctx, directoryKeyPattern)
}
