package handler

import (
	"strconv"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type DirectoryHandler struct {
	uc usecase.DirectoryUsecase
}

func NewDirectoryHandler(uc usecase.DirectoryUsecase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

// List serves GET /users. The caller, when signed in, is left out.
func (h *DirectoryHandler) List(c fiber.Ctx) error {
	q := ucuser.DirectoryQuery{
		Search:       c.Query("search"),
		Availability: c.Query("availability"),
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	}
	if id, ok := middleware.UserID(c); ok {
		q.ViewerID = id
	}

	page, err := h.uc.ListPublic(c.Context(), q)
	if err != nil {
		return internalError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewDirectoryResponse(page))
}

// queryInt returns 0 for a missing or malformed value so the usecase
// applies its default.
func queryInt(c fiber.Ctx, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
