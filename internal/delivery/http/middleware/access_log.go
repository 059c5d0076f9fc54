package middleware

import (
	"strconv"
	"time"

	"skill-swap/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	log *logger.Logger
}

func NewAccessLogMiddleware(log *logger.Logger) *AccessLogMiddleware {
	return &AccessLogMiddleware{log: log}
}

// Middleware tags every request with an X-Request-ID, reusing the client's
// when present, and logs one line per request once the response is built.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(ctxRequestIDKey, rid)

		err := c.Next()

		if m == nil || m.log == nil {
			return err
		}

		// The error middleware sits inside this one, so the status is final.
		m.log.Info("http access", map[string]string{
			"request_id": rid,
			"ip":         c.IP(),
			"method":     c.Method(),
			"path":       c.OriginalURL(),
			"status":     strconv.Itoa(c.Response().StatusCode()),
			"latency":    time.Since(start).String(),
			"resp_bytes": strconv.Itoa(len(c.Response().Body())),
			"user_agent": c.Get(fiber.HeaderUserAgent),
		})
		return err
	}
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(ctxRequestIDKey).(string); ok {
		return rid
	}
	return c.Get(HeaderRequestID)
}
