package routes

import (
	"strings"

	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Directory    *handler.DirectoryHandler
	SwapRequests *handler.SwapRequestHandler
	Upload       *handler.UploadHandler
	Health       *handler.HealthHandler
}

type Registry struct {
	basePath string
	handlers Handlers
	auth     *middleware.AuthMiddleware

	// uploadDir is served at uploadPrefix when set.
	uploadDir    string
	uploadPrefix string
}

func NewRegistry(basePath string, handlers Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{basePath: strings.TrimRight(basePath, "/"), handlers: handlers, auth: auth}
}

// ServeUploads exposes files written by the local upload backend.
func (r *Registry) ServeUploads(dir, prefix string) {
	r.uploadDir = dir
	r.uploadPrefix = strings.TrimRight(prefix, "/")
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerUploads(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerUploads(app *fiber.App) {
	if r.uploadDir == "" || r.uploadPrefix == "" {
		return
	}
	app.Get(r.uploadPrefix+"*", static.New(r.uploadDir))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group(r.basePath)
	required := r.auth.Required()

	if r.handlers.Health != nil && r.basePath != "" {
		r.handlers.Health.RegisterRoutes(api)
	}
	if r.handlers.Auth != nil {
		r.handlers.Auth.RegisterRoutes(api.Group("/auth"), required)
	}
	if r.handlers.Profile != nil {
		api.Put("/profile", required, r.handlers.Profile.Update)
		api.Put("/users/profile", required, r.handlers.Profile.Update)
	}
	if r.handlers.Directory != nil {
		api.Get("/users", r.auth.Optional(), r.handlers.Directory.List)
	}
	if r.handlers.SwapRequests != nil {
		r.handlers.SwapRequests.RegisterRoutes(api.Group("/swap-requests", required))
	}
	if r.handlers.Upload != nil {
		r.handlers.Upload.RegisterRoutes(api)
	}
}
