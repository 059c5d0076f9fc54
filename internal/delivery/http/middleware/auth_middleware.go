package middleware

import (
	"errors"
	"strings"

	"skill-swap/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"

	// AuthCookieName carries the access token for browser clients.
	AuthCookieName = "auth-token"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Required rejects the request with 401 unless it carries a valid access
// token.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := tokenFromRequest(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		setIdentity(c, claims)
		return c.Next()
	}
}

// Optional attaches the caller's identity when a valid access token is
// present. A missing or bad token leaves the request anonymous.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if token, ok := tokenFromRequest(c); ok {
			if claims, err := m.verify(token); err == nil {
				setIdentity(c, claims)
			}
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) verify(token string) (jwt.Claims, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return jwt.Claims{}, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return jwt.Claims{}, jwt.ErrTokenInvalid
	}
	return claims, nil
}

func setIdentity(c fiber.Ctx, claims jwt.Claims) {
	c.Locals(CtxUserIDKey, claims.UserID)
	c.Locals(CtxEmailKey, claims.Email)
}

// UserID returns the authenticated caller, if any.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// tokenFromRequest prefers the Authorization header over the cookie.
func tokenFromRequest(c fiber.Ctx) (string, bool) {
	if tok, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization)); ok {
		return tok, true
	}
	if tok := strings.TrimSpace(c.Cookies(AuthCookieName)); tok != "" {
		return tok, true
	}
	return "", false
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
