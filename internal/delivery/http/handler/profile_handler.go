package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/validation"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc       usecase.ProfileUsecase
	validate *validation.Validator
}

type updateProfileRequest struct {
	Name          string   `json:"name" validate:"max=100"`
	Location      string   `json:"location" validate:"max=100"`
	Availability  string   `json:"availability"`
	SkillsOffered []string `json:"skillsOffered" validate:"max=50,dive,max=100"`
	SkillsWanted  []string `json:"skillsWanted" validate:"max=50,dive,max=100"`
	IsPublic      *bool    `json:"isPublic"`
}

func NewProfileHandler(uc usecase.ProfileUsecase, v *validation.Validator) *ProfileHandler {
	return &ProfileHandler{uc: uc, validate: v}
}

// Update is the JSON profile form. Every mutable field is replaced.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	u, err := h.uc.UpdateProfile(c.Context(), userID, ucuser.UpdateProfileInput{
		Name:          req.Name,
		Location:      req.Location,
		Availability:  req.Availability,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.OK(c, "Profile updated successfully", dto.UserEnvelope{User: dto.NewUserResponse(u)})
}

func mapProfileUsecaseError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case isInvalidInput(err):
		return invalidInput(err)
	default:
		return internalError(err)
	}
}
