package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack-backend/internal/cache"
	"fittrack-backend/internal/config"
	"fittrack-backend/internal/handlers"
	"fittrack-backend/internal/middleware"
	"fittrack-backend/internal/repository"
	"fittrack-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping Redis")
	}
	log.Info().Msg("Redis connection established")
	appCache := cache.New(rdb)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	profileService := services.NewProfileService(profileRepo)
	workoutService := services.NewWorkoutService(workoutRepo, appCache)
	goalService := services.NewGoalService(goalRepo)
	wsHub := services.NewWSHub()
	socialService := services.NewSocialService(socialRepo, userRepo, workoutRepo, wsHub)
	feedService := services.NewFeedService(postRepo, socialRepo, workoutRepo, postRepo, wsHub)
	imageService, err := services.NewImageService(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image service")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	goalHandler := handlers.NewGoalHandler(goalService)
	socialHandler := handlers.NewSocialHandler(socialService)
	feedHandler := handlers.NewFeedHandler(feedService)
	imageHandler := handlers.NewImageHandler(imageService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(middleware.RateLimitMiddleware(appCache, cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profiles", profileHandler.List)
			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)

			r.Get("/workouts/summary", workoutHandler.Summary)
			r.Get("/workouts/statistics", workoutHandler.Statistics)
			r.Post("/workouts", workoutHandler.Create)
			r.Get("/workouts", workoutHandler.List)
			r.Get("/workouts/{workout_id}", workoutHandler.Get)
			r.Put("/workouts/{workout_id}", workoutHandler.Update)
			r.Delete("/workouts/{workout_id}", workoutHandler.Delete)

			r.Post("/goals", goalHandler.Create)
			r.Get("/goals", goalHandler.List)
			r.Put("/goals/{goal_id}", goalHandler.Update)
			r.Delete("/goals/{goal_id}", goalHandler.Delete)

			r.Post("/social/follow", socialHandler.ToggleFollow)
			r.Get("/social/following", socialHandler.ListFollowing)
			r.Get("/social/followers", socialHandler.ListFollowers)
			r.Post("/workouts/{workout_id}/like", socialHandler.ToggleLike)
			r.Post("/workouts/{workout_id}/comments", socialHandler.CreateComment)
			r.Get("/workouts/{workout_id}/comments", socialHandler.ListComments)
			r.Delete("/comments/{comment_id}", socialHandler.DeleteComment)

			r.Post("/feed/share", feedHandler.Share)
			r.Get("/feed", feedHandler.Get)
			r.Get("/feed/engagement", feedHandler.Engagement)

			r.Post("/images/presign", imageHandler.Presign)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
