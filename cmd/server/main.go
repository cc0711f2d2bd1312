package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-api/internal/auth"
	"github.com/iliyamo/todo-api/internal/config"
	"github.com/iliyamo/todo-api/internal/database"
	"github.com/iliyamo/todo-api/internal/handler"
	"github.com/iliyamo/todo-api/internal/middleware"
	"github.com/iliyamo/todo-api/internal/queue"
	"github.com/iliyamo/todo-api/internal/repository"
	"github.com/iliyamo/todo-api/internal/router"
	"github.com/iliyamo/todo-api/internal/storage"
)

func main() {
	// A .env file is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute)

	// Pick the attachment backend from configuration; both satisfy the
	// same ImageStore interface so handlers never know the difference.
	var images storage.ImageStore
	var local *storage.LocalStore
	switch cfg.StorageBackend {
	case config.StorageRemote:
		images = storage.NewRemoteStore(cfg.BlobBaseURL, cfg.BlobAPIKey)
	default:
		local, err = storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		images = local
	}

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting on the auth endpoints; degrades to a
	// no-op when Redis is unreachable.
	var limiter echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), tokens, users, limiter)
	router.RegisterTodos(e, handler.NewTodoHandler(todos, images), tokens, users)

	// Local uploads are served by this process; the remote backend
	// serves blobs itself.
	if local != nil {
		e.Static("/uploads", local.Root())
	}

	// Activity events land in logs/activity.log via the consumer. It
	// reconnects on its own, so a missing broker only costs the log.
	go queue.StartActivityConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
