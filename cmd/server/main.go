package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-swap/internal/app"
	"skill-swap/internal/config"
	"skill-swap/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.New(cfg.App.Environment)
	defer func() { _ = lg.Sync() }()

	bootstrap, cleanup, err := app.Bootstrap(context.Background(), cfg, lg)
	if err != nil {
		lg.Fatal("failed to bootstrap app", map[string]string{"error": err.Error()})
	}
	defer func() {
		if err := cleanup(); err != nil {
			lg.Error("cleanup error", map[string]string{"error": err.Error()})
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		lg.Fatal("invalid HTTP port", map[string]string{"error": err.Error()})
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server listening", map[string]string{
			"addr":      addr,
			"base_path": cfg.App.BasePath,
			"env":       string(cfg.App.Environment),
		})
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error("server error", map[string]string{"error": err.Error()})
		}
	case sig := <-sigCh:
		lg.Info("shutting down", map[string]string{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			lg.Error("shutdown error", map[string]string{"error": err.Error()})
		}
	}
}
