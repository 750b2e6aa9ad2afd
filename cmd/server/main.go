package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dankop/agora/internal/config"
	"github.com/dankop/agora/internal/database"
	"github.com/dankop/agora/internal/logging"
	postgresrepo "github.com/dankop/agora/internal/repository/postgres"
	"github.com/dankop/agora/internal/service"
	"github.com/dankop/agora/internal/transport/http/handlers"
	"github.com/dankop/agora/internal/transport/http/middleware"
	"github.com/dankop/agora/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)

	// Services
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)

	// Live post feed
	hub := ws.NewHub()
	go hub.Run()
	postService.SetNotifier(ws.NewHubNotifier(hub))

	// Handlers
	tokens := handlers.NewTokenIssuer(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(userService, tokens, cfg.IsAdminUser)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/posts", optionalAuth(http.HandlerFunc(postHandler.List)))
	mux.Handle("GET /api/v1/posts/{id}", optionalAuth(http.HandlerFunc(postHandler.Get)))
	mux.HandleFunc("GET /ws/feed", ws.ServeWS(hub))

	// Protected - Users
	mux.Handle("GET /api/v1/users", auth(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/v1/users/{id}", auth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PATCH /api/v1/users/{id}/nickname", auth(http.HandlerFunc(userHandler.ChangeNickname)))
	mux.Handle("PATCH /api/v1/users/{id}/password", auth(http.HandlerFunc(userHandler.ChangePassword)))
	mux.Handle("PATCH /api/v1/users/{id}/email", auth(http.HandlerFunc(userHandler.ChangeEmail)))
	mux.Handle("DELETE /api/v1/users/{id}", auth(http.HandlerFunc(userHandler.Delete)))

	// Protected - Posts
	mux.Handle("POST /api/v1/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("PATCH /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Update)))
	mux.Handle("DELETE /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Delete)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	slog.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
