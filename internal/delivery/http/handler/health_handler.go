package handler

import (
	"context"
	"time"

	"skill-swap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const (
	stateUp       = "up"
	stateDown     = "down"
	stateDisabled = "disabled"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStater reports up, down or disabled.
type CacheStater interface {
	State(ctx context.Context) string
}

type HealthHandler struct {
	db    Pinger
	cache CacheStater

	timeout time.Duration
}

func NewHealthHandler(db Pinger, cache CacheStater) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
	r.Get("/health/dependencies", h.Dependencies)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.OK(c, response.MessageOK, nil)
}

// Dependencies answers 503 when the database is unreachable. A degraded
// cache alone keeps the service healthy.
func (h *HealthHandler) Dependencies(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	states := fiber.Map{
		"database": stateDisabled,
		"cache":    stateDisabled,
	}
	status := fiber.StatusOK

	if h.db != nil {
		states["database"] = stateUp
		if err := h.db.Ping(ctx); err != nil {
			states["database"] = stateDown
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		states["cache"] = h.cache.State(ctx)
	}

	return response.Success(c, status, "", states)
}
