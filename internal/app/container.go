package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/infrastructure/storage"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/repository"
	"skill-swap/internal/repository/memory"
	ucauth "skill-swap/internal/usecase/auth"
	ucswap "skill-swap/internal/usecase/swap"
	ucupload "skill-swap/internal/usecase/upload"
	ucuser "skill-swap/internal/usecase/user"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Log    *logger.Logger

	// DB is nil with STORAGE_DRIVER=memory.
	DB    database.DB
	Store *memory.Store

	Cache   *cache.Redis
	Storage storage.Storage
	Tokens  jwt.Service

	Auth         *ucauth.Service
	Profile      *ucuser.Service
	Directory    *ucuser.Directory
	SwapRequests *ucswap.Service
	Upload       *ucupload.Service
}

func NewContainer(ctx context.Context, cfg config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	users, requests, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	c.Storage, err = storage.New(ctx, cfg.Upload)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	c.Tokens = jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.ResetExpiresIn)
	c.Directory = ucuser.NewDirectory(users, c.Cache, cfg.Redis.TTL, log)
	c.Upload = ucupload.NewService(c.Storage, log)
	c.Auth = ucauth.NewService(users, c.Tokens, ucauth.NewLogNotifier(log), c.Directory, log, ucauth.Config{
		BcryptCost: cfg.App.BcryptCost,
		AppURL:     cfg.App.PublicURL,
	})
	c.Profile = ucuser.NewService(users, c.Upload, c.Directory, log)
	c.SwapRequests = ucswap.NewService(requests, users)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) (user.Repository, swap.Repository, error) {
	if c.Config.App.StorageDriver == config.StorageDriverMemory {
		c.Store = memory.NewStore()
		c.Log.Warn("using in-memory store, data is lost on restart")
		return c.Store.Users(), c.Store.SwapRequests(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := dbpostgres.Connect(connectCtx, c.Config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = pool

	if c.Config.Database.AutoMigrate {
		if err := migration.Up(ctx, pool.SQLDB()); err != nil {
			_ = pool.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		c.Log.Info("database migrations applied")
	}

	return repository.NewPostgresUserRepository(pool), repository.NewPostgresSwapRequestRepository(pool), nil
}

// HealthDB is what the dependency check pings.
func (c *Container) HealthDB() handler.Pinger {
	if c.DB != nil {
		return c.DB
	}
	return c.Store
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
