package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/validation"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucswap "skill-swap/internal/usecase/swap"

	"github.com/gofiber/fiber/v3"
)

type SwapRequestHandler struct {
	uc       usecase.SwapRequestUsecase
	validate *validation.Validator
}

type createSwapRequest struct {
	ReceiverID   string `json:"receiverId"`
	OfferedSkill string `json:"offeredSkill" validate:"max=100"`
	WantedSkill  string `json:"wantedSkill" validate:"max=100"`
	Message      string `json:"message" validate:"max=1000"`
}

type transitionSwapRequest struct {
	Status string `json:"status"`
}

func NewSwapRequestHandler(uc usecase.SwapRequestUsecase, v *validation.Validator) *SwapRequestHandler {
	return &SwapRequestHandler{uc: uc, validate: v}
}

// RegisterRoutes expects r to be guarded by the auth middleware already.
func (h *SwapRequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.List)
	r.Put("/:id", h.Transition)
	r.Delete("/:id", h.Delete)
}

func (h *SwapRequestHandler) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createSwapRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), userID, ucswap.CreateInput{
		ReceiverID:   req.ReceiverID,
		OfferedSkill: req.OfferedSkill,
		WantedSkill:  req.WantedSkill,
		Message:      req.Message,
	})
	if err != nil {
		return mapSwapUsecaseError(err, "")
	}
	return response.Created(c, "Swap request sent successfully", dto.CreatedSwapRequest{ID: created.ID})
}

func (h *SwapRequestHandler) List(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.uc.List(c.Context(), userID, ucswap.ListInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	})
	if err != nil {
		return mapSwapUsecaseError(err, "")
	}
	return response.OK(c, response.MessageOK, dto.NewSwapRequestList(views, userID))
}

func (h *SwapRequestHandler) Transition(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transitionSwapRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	updated, err := h.uc.Transition(c.Context(), userID, ucswap.TransitionInput{ID: c.Params("id"), Status: req.Status})
	if err != nil {
		return mapSwapUsecaseError(err, "You can only respond to requests sent to you")
	}
	return response.OK(c, "Request "+string(updated.Status)+" successfully", dto.NewTransitionedSwapRequest(updated))
}

func (h *SwapRequestHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return mapSwapUsecaseError(err, "Unauthorized to delete this request")
	}
	return response.OK(c, "Swap request deleted successfully", nil)
}

// mapSwapUsecaseError maps usecase failures to responses. forbidden is the
// message for ErrForbidden, which differs per operation.
func mapSwapUsecaseError(err error, forbidden string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucswap.ErrReceiverNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Receiver not found", nil, err)
	case errors.Is(err, ucswap.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Swap request not found", nil, err)
	case errors.Is(err, ucswap.ErrDuplicatePending):
		return middleware.NewAppError(fiber.StatusConflict, "You already have a pending request with this user", nil, err)
	case errors.Is(err, ucswap.ErrAlreadyResponded):
		return middleware.NewAppError(fiber.StatusConflict, "This request has already been responded to", nil, err)
	case errors.Is(err, ucswap.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, forbidden, nil, err)
	case isInvalidInput(err):
		return invalidInput(err)
	default:
		return internalError(err)
	}
}
