package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	// Fingerprint binds a reset token to the password hash it was issued for.
	Fingerprint string `json:"fingerprint,omitempty"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateResetToken(userID uuid.UUID, email, fingerprint string) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	AccessTTL() time.Duration
}

type HMACService struct {
	secret []byte

	accessExpiresIn time.Duration
	resetExpiresIn  time.Duration

	now func() time.Time
}

func NewHMACService(secret string, accessExpiresIn, resetExpiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:          []byte(secret),
		accessExpiresIn: accessExpiresIn,
		resetExpiresIn:  resetExpiresIn,
		now:             time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generate(TokenTypeAccess, userID, email, "")
}

func (s *HMACService) GenerateResetToken(userID uuid.UUID, email, fingerprint string) (string, error) {
	return s.generate(TokenTypeReset, userID, email, fingerprint)
}

func (s *HMACService) AccessTTL() time.Duration {
	return s.accessExpiresIn
}

// ValidateToken verifies signature, algorithm, expiry and token type.
// On any failure it returns zero Claims.
func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	if c.TokenType != TokenTypeAccess && c.TokenType != TokenTypeReset {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}

func (s *HMACService) generate(tokenType string, userID uuid.UUID, email, fingerprint string) (string, error) {
	now := s.now().UTC()
	expIn, err := s.expiry(tokenType)
	if err != nil {
		return "", err
	}

	c := Claims{
		UserID:      userID,
		Email:       email,
		TokenType:   tokenType,
		Fingerprint: fingerprint,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expIn)),
			Subject:   userID.String(),
			ID:        uuid.NewString(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) expiry(tokenType string) (time.Duration, error) {
	if len(s.secret) == 0 {
		return 0, ErrTokenInvalid
	}
	switch tokenType {
	case TokenTypeAccess:
		if s.accessExpiresIn <= 0 {
			return 0, ErrTokenInvalid
		}
		return s.accessExpiresIn, nil
	case TokenTypeReset:
		if s.resetExpiresIn <= 0 {
			return 0, ErrTokenInvalid
		}
		return s.resetExpiresIn, nil
	default:
		return 0, ErrTokenInvalid
	}
}
