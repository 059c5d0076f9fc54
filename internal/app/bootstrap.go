package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"skill-swap/internal/config"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"
	"skill-swap/internal/delivery/http/validation"
	"skill-swap/internal/infrastructure/storage"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/types/environments"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

const bodyLimit = 10 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over an initialized container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, cfg, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and the HTTP app. The cleanup function
// closes the store and the cache.
func Bootstrap(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Use(cors.New(corsConfig(cfg.App.CORSAllowedOrigins)))
}

// corsConfig allows credentials only for an explicit origin list. The
// middleware refuses credentials together with a wildcard origin.
func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return cors.Config{AllowOrigins: []string{"*"}}
	}
	return cors.Config{AllowOrigins: origins, AllowCredentials: true}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	cfg := c.Config
	v := validation.New()
	secure := cfg.App.Environment == environments.Production

	reg := routes.NewRegistry(cfg.App.BasePath, routes.Handlers{
		Auth:         handler.NewAuthHandler(c.Auth, c.Profile, v, secure),
		Profile:      handler.NewProfileHandler(c.Profile, v),
		Directory:    handler.NewDirectoryHandler(c.Directory),
		SwapRequests: handler.NewSwapRequestHandler(c.SwapRequests, v),
		Upload:       handler.NewUploadHandler(c.Upload),
		Health:       handler.NewHealthHandler(c.HealthDB(), c.Cache),
	}, middleware.NewAuthMiddleware(c.Tokens))

	if local, ok := c.Storage.(*storage.Local); ok {
		reg.ServeUploads(local.Dir(), cfg.Upload.URLPrefix)
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
