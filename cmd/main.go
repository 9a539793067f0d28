package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"contesto/internal/auth"
	"contesto/internal/cache"
	"contesto/internal/config"
	"contesto/internal/database"
	"contesto/internal/handlers"
	"contesto/internal/jobs"
	"contesto/internal/payments"
	"contesto/internal/repository"
	"contesto/internal/services"
	"contesto/internal/storage"

	"github.com/go-redis/redis/v8"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Identity verification
	var verifier auth.Verifier
	if cfg.Auth.FirebaseProjectID != "" {
		fv, err := auth.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		verifier = fv
		log.Println("Identity tokens verified by Firebase")
	} else {
		verifier = auth.NewHMACVerifier(cfg.Auth.DevSecret)
		log.Println("WARNING: identity tokens verified with AUTH_DEV_SECRET (development only)")
	}

	// Popular-contest cache
	var popular cache.PopularCache = cache.Noop{}
	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		popular = cache.NewRedisCache(redisClient, cfg.Cache.PopularTTL)
		log.Println("Popular contests cached in Redis")
	}

	// Contest image storage
	var images services.ImageStore
	if cfg.StorageEnabled() {
		store, err := storage.NewS3Store(ctx, storage.Options{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			CDNBaseURL:      cfg.Storage.CDNBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		images = store
	}

	// Initialize repository and services
	repo := repository.NewRepository(db)
	userService := services.NewUserService(repo)
	creatorService := services.NewCreatorService(repo)
	contestService := services.NewContestService(repo, popular, images)
	paymentService := services.NewPaymentService(
		repo,
		payments.NewStripeClient(cfg.Payments.StripeSecretKey),
		cfg.Payments.SiteDomain,
		cfg.Payments.Currency,
	)
	submissionService := services.NewSubmissionService(repo)

	// Background jobs
	refresher := jobs.NewPopularRefresher(contestService, cfg.Cache.RefreshInterval)
	if err := refresher.Start(); err != nil {
		log.Fatalf("Failed to start popular refresher: %v", err)
	}

	router := handlers.NewRouter(handlers.Deps{
		Verifier:       verifier,
		Users:          userService,
		Creators:       creatorService,
		Contests:       contestService,
		Payments:       paymentService,
		Submissions:    submissionService,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := refresher.Stop(); err != nil {
		log.Printf("Failed to stop scheduler: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}

	log.Println("Server exited")
}
