package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/dailyguessr/internal/bootstrap"
	"anoa.com/dailyguessr/internal/config"
	"anoa.com/dailyguessr/internal/server"
	"anoa.com/dailyguessr/pkg/apperror"
	"anoa.com/dailyguessr/pkg/cache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := bootstrap.OpenLedgerRepository(cfg)
	if err != nil {
		log.Fatalf("failed to open ledger storage: %v", err)
	}
	defer closeRepo()

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without cooldowns and pub/sub: %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(ctx, cfg, repo, redisClient)
	if err != nil {
		if errors.Is(err, apperror.ErrStorageCorrupt) {
			log.Fatalf("❌ Refusing to start, the score ledger is corrupt (fix or move it aside): %v", err)
		}
		log.Fatalf("failed to start server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server exited with error: %v", err)
		}
		return
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Graceful shutdown failed: %v", err)
	}
}
