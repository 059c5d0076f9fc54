package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/validation"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucauth "skill-swap/internal/usecase/auth"
	"skill-swap/internal/usecase/ucerr"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const messageResetRequested = "If an account with that email exists, we have sent a password reset link."

type AuthHandler struct {
	auth     usecase.AuthUsecase
	profile  usecase.ProfileUsecase
	validate *validation.Validator

	secureCookie bool
}

type registerRequest struct {
	Name          string   `json:"name" validate:"max=100"`
	Email         string   `json:"email" validate:"max=254"`
	Password      string   `json:"password" validate:"max=72"`
	Location      string   `json:"location" validate:"max=100"`
	Availability  string   `json:"availability"`
	SkillsOffered []string `json:"skillsOffered" validate:"max=50,dive,max=100"`
	SkillsWanted  []string `json:"skillsWanted" validate:"max=50,dive,max=100"`
	IsPublic      *bool    `json:"isPublic"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" validate:"max=72"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"max=72"`
}

// NewAuthHandler wires the identity endpoints. secureCookie marks the auth
// cookie Secure, which production deployments need.
func NewAuthHandler(auth usecase.AuthUsecase, profile usecase.ProfileUsecase, v *validation.Validator, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, profile: profile, validate: v, secureCookie: secureCookie}
}

// RegisterRoutes mounts the public auth routes. requireAuth guards /me.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, requireAuth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)

	r.Get("/me", requireAuth, h.Me)
	r.Put("/me", requireAuth, h.UpdateMe)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	res, err := h.auth.Register(c.Context(), ucauth.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Location:      req.Location,
		Availability:  req.Availability,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setAuthCookie(c, res.Token)
	return response.Created(c, "User registered successfully", dto.AuthResponse{
		User:  dto.NewUserResponse(res.User),
		Token: res.Token,
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setAuthCookie(c, res.Token)
	return response.OK(c, "Login successful", dto.AuthResponse{
		User:  dto.NewUserResponse(res.User),
		Token: res.Token,
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(1, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return response.OK(c, "Logged out successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, messageResetRequested, nil)
}

func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var req resetPasswordRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.Context(), ucauth.ResetPasswordInput{Token: req.Token, Password: req.Password}); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, "Password has been reset successfully", nil)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	u, err := h.auth.CurrentUser(c.Context(), userID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.UserEnvelope{User: dto.NewUserResponse(u)})
}

// UpdateMe is the multipart profile form. Skill lists arrive as JSON
// encoded arrays and an optional "photo" file replaces the current one.
func (h *AuthHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	in, closeFn, err := profileFromForm(c)
	if err != nil {
		return err
	}
	defer closeFn()

	u, err := h.profile.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.OK(c, "Profile updated successfully", dto.UserEnvelope{User: dto.NewUserResponse(u)})
}

func (h *AuthHandler) setAuthCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func profileFromForm(c fiber.Ctx) (ucuser.UpdateProfileInput, func(), error) {
	noop := func() {}

	offered, err := skillsFormValue(c, "skillsOffered")
	if err != nil {
		return ucuser.UpdateProfileInput{}, noop, err
	}
	wanted, err := skillsFormValue(c, "skillsWanted")
	if err != nil {
		return ucuser.UpdateProfileInput{}, noop, err
	}

	in := ucuser.UpdateProfileInput{
		Name:          c.FormValue("name"),
		Location:      c.FormValue("location"),
		Availability:  c.FormValue("availability"),
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}

	if raw := strings.TrimSpace(c.FormValue("isPublic")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return ucuser.UpdateProfileInput{}, noop, invalidInput(
				ucerr.NewFieldError("isPublic", "boolean", "isPublic must be true or false"))
		}
		in.IsPublic = &v
	}

	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		return in, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return ucuser.UpdateProfileInput{}, noop, internalError(err)
	}
	in.Photo = &ucuser.Photo{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Body:        f,
	}
	return in, func() { _ = f.Close() }, nil
}

// skillsFormValue decodes a JSON array form field. An empty field is an
// empty list.
func skillsFormValue(c fiber.Ctx, field string) ([]string, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, invalidInput(ucerr.NewFieldError(field, "json", field+" must be a JSON array of strings"))
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "User with this email already exists", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidResetToken):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid or expired reset token", nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case isInvalidInput(err):
		return invalidInput(err)
	default:
		return internalError(err)
	}
}
