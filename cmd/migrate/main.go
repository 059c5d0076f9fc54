// Command migrate applies or rolls back the database schema.
//
//	migrate [up|down|status|seed]
//
// seed inserts demo users and swap requests into a migrated database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/database/seeder"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/repository"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.App.StorageDriver != config.StorageDriverPostgres {
		log.Fatalf("migrations need STORAGE_DRIVER=%s", config.StorageDriverPostgres)
	}

	lg := logger.New(cfg.App.Environment)
	defer func() { _ = lg.Sync() }()

	if err := run(cmd, cfg, lg); err != nil {
		lg.Fatal("migration failed", map[string]string{"command": cmd, "error": err.Error()})
	}
	lg.Info("migration finished", map[string]string{"command": cmd})
}

func run(cmd string, cfg config.Config, lg *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			lg.Warn("close database", map[string]string{"error": err.Error()})
		}
	}()

	switch cmd {
	case "up":
		return migration.Up(ctx, pool.SQLDB())
	case "down":
		return migration.Down(ctx, pool.SQLDB())
	case "status":
		return migration.Status(ctx, pool.SQLDB())
	case "seed":
		if err := seeder.CheckSchema(ctx, pool); err != nil {
			return err
		}
		r := seeder.Runner{Seeders: seeder.Defaults(cfg.App.BcryptCost), Log: lg}
		return r.Run(ctx, seeder.Stores{
			Users:        repository.NewPostgresUserRepository(pool),
			SwapRequests: repository.NewPostgresSwapRequestRepository(pool),
		})
	default:
		return fmt.Errorf("unknown command %q, want up, down, status or seed", cmd)
	}
}
