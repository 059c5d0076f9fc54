package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/usecase/ucerr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = ucerr.ErrInvalidInput
	ErrInternal     = ucerr.ErrInternal

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidResetToken      = errors.New("invalid or expired reset token")
)

const (
	minPasswordLength = 6
	// bcrypt rejects inputs longer than this many bytes.
	maxPasswordBytes = 72
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DirectoryInvalidator drops cached directory pages after a profile changes.
type DirectoryInvalidator interface {
	InvalidateDirectory(ctx context.Context) error
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Location      string
	Availability  string
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      *bool
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Token    string
	Password string
}

// Result is a sanitized user together with a freshly issued access token.
type Result struct {
	User  user.User
	Token string
}

type Config struct {
	BcryptCost int

	// AppURL is the client origin reset links point at.
	AppURL string
}

type Service struct {
	users     user.Repository
	tokens    jwt.Service
	notifier  ResetNotifier
	directory DirectoryInvalidator
	log       *logger.Logger

	bcryptCost int
	appURL     string
	now        func() time.Time
}

func NewService(users user.Repository, tokens jwt.Service, notifier ResetNotifier, directory DirectoryInvalidator, log *logger.Logger, cfg Config) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		directory:  directory,
		log:        log,
		bcryptCost: cost,
		appURL:     strings.TrimRight(cfg.AppURL, "/"),
		now:        time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	email := normalizeEmail(in.Email)

	switch {
	case in.Name == "":
		return Result{}, ucerr.Required("name")
	case email == "":
		return Result{}, ucerr.Required("email")
	case in.Password == "":
		return Result{}, ucerr.Required("password")
	case in.Location == "":
		return Result{}, ucerr.Required("location")
	case strings.TrimSpace(in.Availability) == "":
		return Result{}, ucerr.Required("availability")
	case in.SkillsOffered == nil:
		return Result{}, ucerr.Required("skillsOffered")
	case in.SkillsWanted == nil:
		return Result{}, ucerr.Required("skillsWanted")
	}
	if !emailRe.MatchString(email) {
		return Result{}, ucerr.NewFieldError("email", "email", "Invalid email format")
	}
	if err := checkPassword(in.Password); err != nil {
		return Result{}, err
	}
	avail, ok := user.ParseAvailability(in.Availability)
	if !ok {
		return Result{}, invalidAvailability()
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if exists {
		return Result{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	now := s.now().UTC()
	u := user.User{
		ID:            uuid.New(),
		Name:          in.Name,
		Email:         email,
		PasswordHash:  string(hash),
		Location:      in.Location,
		SkillsOffered: in.SkillsOffered,
		SkillsWanted:  in.SkillsWanted,
		Availability:  avail,
		IsPublic:      isPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Result{}, ErrEmailAlreadyRegistered
		}
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.invalidateDirectory(ctx)
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		field := "email"
		if email != "" {
			field = "password"
		}
		return Result{}, ucerr.NewFieldError(field, "required", "Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}

	return s.issue(u)
}

// CurrentUser loads the authenticated user. A deleted user yields an error
// wrapping user.ErrNotFound.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return sanitizeUser(u), nil
}

// RequestPasswordReset issues a reset link when the email is known. It
// reports success either way so callers cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ucerr.NewFieldError("email", "required", "Email is required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	tok, err := s.tokens.GenerateResetToken(u.ID, u.Email, fingerprint(u.PasswordHash))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	link := s.appURL + "/reset-password?token=" + url.QueryEscape(tok)
	if s.notifier != nil {
		if err := s.notifier.SendResetLink(ctx, u, link); err != nil {
			s.log.Error("send reset link failed", map[string]string{
				"user_id": u.ID.String(),
				"error":   err.Error(),
			})
		}
	}
	return nil
}

// ResetPassword sets a new password. The token is bound to the hash it was
// issued for, so it stops working once the password changes.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if strings.TrimSpace(in.Token) == "" {
		return ucerr.Required("token")
	}
	if in.Password == "" {
		return ucerr.Required("password")
	}
	if err := checkPassword(in.Password); err != nil {
		return err
	}

	claims, err := s.tokens.ValidateToken(in.Token)
	if err != nil || claims.TokenType != jwt.TokenTypeReset {
		return invalidResetToken()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return invalidResetToken()
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if subtle.ConstantTimeCompare([]byte(fingerprint(u.PasswordHash)), []byte(claims.Fingerprint)) != 1 {
		return invalidResetToken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, u.ID, string(hash)); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return invalidResetToken()
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) TokenTTL() time.Duration {
	return s.tokens.AccessTTL()
}

func (s *Service) issue(u user.User) (Result, error) {
	tok, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return Result{User: sanitizeUser(u), Token: tok}, nil
}

func (s *Service) invalidateDirectory(ctx context.Context) {
	if s.directory == nil {
		return
	}
	if err := s.directory.InvalidateDirectory(ctx); err != nil {
		s.log.Warn("directory cache invalidation failed", map[string]string{"error": err.Error()})
	}
}

func checkPassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLength {
		return ucerr.NewFieldError("password", "min", "Password must be at least 6 characters long")
	}
	if len(pw) > maxPasswordBytes {
		return ucerr.NewFieldError("password", "max", "Password must be at most 72 bytes long")
	}
	return nil
}

func invalidAvailability() error {
	return ucerr.NewFieldError("availability", "oneof", "Availability must be one of Weekends, Evenings, Flexible")
}

func invalidResetToken() error {
	return fmt.Errorf("%w: %w", ErrInvalidResetToken,
		ucerr.NewFieldError("token", "invalid", "Invalid or expired reset token"))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:16])
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
