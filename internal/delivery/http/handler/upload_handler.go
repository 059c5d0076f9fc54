package handler

import (
	"io"

	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UploadHandler struct {
	uc usecase.UploadUsecase
}

func NewUploadHandler(uc usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/upload", h.Upload)
}

// Upload stores the multipart "file" field and returns its URL.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	var (
		name, contentType string
		body              io.Reader
	)
	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return internalError(err)
		}
		defer f.Close()
		name, contentType, body = fh.Filename, fh.Header.Get(fiber.HeaderContentType), f
	}

	url, err := h.uc.Store(c.Context(), name, contentType, body)
	if err != nil {
		if isInvalidInput(err) {
			return invalidInput(err)
		}
		return internalError(err)
	}
	return response.OK(c, "File uploaded successfully", fiber.Map{"url": url})
}
