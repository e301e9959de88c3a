package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/poketrainer/api/internal/config"
	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/handler"
	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/repository"
	"github.com/poketrainer/api/internal/service"
	"github.com/poketrainer/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present (development convenience, no-op otherwise)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Generate a dev keypair if none exists yet
	if cfg.IsDevelopment() {
		if _, statErr := os.Stat(cfg.JWT.PrivateKeyPath); os.IsNotExist(statErr) {
			slog.Info("generating development JWT keypair",
				slog.String("private_key", cfg.JWT.PrivateKeyPath),
			)
			if err := jwt.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
				slog.Error("failed to generate JWT keypair", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	trainerRepo := repository.NewTrainerRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	pokemonRepo := repository.NewPokemonRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	boxRepo := repository.NewBoxRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      jwtService,
		TokenRepo:       tokenRepo,
		RefreshDuration: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		TrainerRepo:  trainerRepo,
		TokenService: tokenService,
	})

	trainerService := service.NewTrainerService(service.TrainerServiceConfig{
		TrainerRepo: trainerRepo,
	})

	pokemonService := service.NewPokemonService(service.PokemonServiceConfig{
		PokemonRepo: pokemonRepo,
		BoxRepo:     boxRepo,
		TrainerRepo: trainerRepo,
	})

	teamService := service.NewTeamService(service.TeamServiceConfig{
		TeamRepo:    teamRepo,
		PokemonRepo: pokemonRepo,
		TrainerRepo: trainerRepo,
	})

	boxService := service.NewBoxService(service.BoxServiceConfig{
		BoxRepo:     boxRepo,
		TeamRepo:    teamRepo,
		PokemonRepo: pokemonRepo,
	})

	itemService := service.NewItemService(service.ItemServiceConfig{
		ItemRepo:    itemRepo,
		PokemonRepo: pokemonRepo,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Burst:  cfg.RateLimit.Burst,
		Window: cfg.RateLimit.Window,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	trainerHandler := handler.NewTrainerHandler(trainerService)
	pokemonHandler := handler.NewPokemonHandler(pokemonService)
	teamHandler := handler.NewTeamHandler(teamService)
	boxHandler := handler.NewBoxHandler(boxService)
	itemHandler := handler.NewItemHandler(itemService)

	// Create router and register routes
	mux := http.NewServeMux()

	authMiddleware := middleware.Auth(authService)
	adminMiddleware := middleware.AdminAuth()

	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(adminMiddleware(h))
	}

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)

	// Auth endpoints (protected)
	mux.Handle("POST /v1/auth/logout", protected(authHandler.Logout))
	mux.Handle("GET /v1/auth/me", protected(authHandler.Me))

	// Trainer endpoints
	mux.Handle("GET /v1/trainers", protected(trainerHandler.List))
	mux.Handle("GET /v1/trainers/{id}", protected(trainerHandler.Get))
	mux.Handle("PATCH /v1/trainers/{id}", protected(trainerHandler.Update))
	mux.Handle("DELETE /v1/trainers/{id}", protected(trainerHandler.Delete))
	mux.Handle("GET /v1/trainers/{id}/pokemon", protected(pokemonHandler.ListByTrainer))
	mux.Handle("GET /v1/trainers/{id}/teams", protected(teamHandler.ListByTrainer))
	mux.Handle("GET /v1/trainers/{id}/boxes", protected(boxHandler.ListByTrainer))
	mux.Handle("GET /v1/trainers/{id}/items", protected(itemHandler.ListByTrainer))

	// Pokemon endpoints
	mux.Handle("GET /v1/pokemon", protected(pokemonHandler.List))
	mux.Handle("POST /v1/pokemon", protected(pokemonHandler.Create))
	mux.Handle("GET /v1/pokemon/{id}", protected(pokemonHandler.Get))
	mux.Handle("PATCH /v1/pokemon/{id}", protected(pokemonHandler.Update))
	mux.Handle("DELETE /v1/pokemon/{id}", protected(pokemonHandler.Delete))
	mux.Handle("PUT /v1/pokemon/{id}/level-up", protected(pokemonHandler.LevelUp))
	mux.Handle("POST /v1/pokemon/{id}/evolve", protected(pokemonHandler.Evolve))

	// Team endpoints
	mux.Handle("GET /v1/teams", protected(teamHandler.List))
	mux.Handle("POST /v1/teams", protected(teamHandler.Create))
	mux.Handle("GET /v1/teams/{id}", protected(teamHandler.Get))
	mux.Handle("PATCH /v1/teams/{id}", protected(teamHandler.Update))
	mux.Handle("DELETE /v1/teams/{id}", protected(teamHandler.Delete))
	mux.Handle("POST /v1/teams/{id}/pokemon", protected(teamHandler.AddPokemon))
	mux.Handle("DELETE /v1/teams/{id}/pokemon/{pokemonId}", protected(teamHandler.RemovePokemon))
	mux.Handle("PUT /v1/teams/{id}/reorder", protected(teamHandler.Reorder))

	// Box endpoints
	mux.Handle("GET /v1/boxes", protected(boxHandler.List))
	mux.Handle("POST /v1/boxes", protected(boxHandler.Create))
	mux.Handle("POST /v1/boxes/transfer", protected(boxHandler.Transfer))
	mux.Handle("GET /v1/boxes/{id}", protected(boxHandler.Get))
	mux.Handle("PATCH /v1/boxes/{id}", protected(boxHandler.Update))
	mux.Handle("DELETE /v1/boxes/{id}", protected(boxHandler.Delete))

	// Item endpoints
	mux.Handle("GET /v1/items", protected(itemHandler.List))
	mux.Handle("POST /v1/items", protected(itemHandler.Create))
	mux.Handle("GET /v1/items/{id}", protected(itemHandler.Get))
	mux.Handle("PATCH /v1/items/{id}", protected(itemHandler.Update))
	mux.Handle("DELETE /v1/items/{id}", protected(itemHandler.Delete))
	mux.Handle("POST /v1/items/{id}/use", protected(itemHandler.Use))

	// Admin endpoints - requires admin role
	mux.Handle("GET /v1/admin/trainers", admin(trainerHandler.AdminList))
	mux.Handle("PATCH /v1/admin/trainers/{id}/role", admin(trainerHandler.SetRole))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
