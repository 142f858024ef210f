package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/skycastapp/skycast/internal/adapters/cache"
	"github.com/skycastapp/skycast/internal/adapters/filestore"
	adapterHTTP "github.com/skycastapp/skycast/internal/adapters/handler/http"
	"github.com/skycastapp/skycast/internal/adapters/provider"
	"github.com/skycastapp/skycast/internal/adapters/repository"
	"github.com/skycastapp/skycast/internal/adapters/scheduler"
	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
	"github.com/skycastapp/skycast/internal/core/workers"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		log.Fatal("Critical: OPENWEATHER_API_KEY is not set")
	}

	dataDir := getenvDefault("DATA_DIR", "data")
	serverPort := getenvDefault("PORT", "8080")
	jwtSecret := getenvDefault("JWT_SECRET", "skycast-dev-secret")

	refreshInterval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "30m"))
	if err != nil {
		log.Fatalf("Critical: invalid REFRESH_INTERVAL: %v", err)
	}

	// Account storage. Without a configured database the daemon still
	// serves the guest path; accounts live in memory only.
	var db *sqlx.DB
	var userRepo domain.UserRepository
	var accountPrefs domain.AccountPreferenceRepository

	if os.Getenv("DB_NAME") != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getenvDefault("DB_HOST", "localhost"),
			getenvDefault("DB_PORT", "5432"),
			os.Getenv("DB_NAME"),
		)

		log.Println("Connecting to database...")

		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		userRepo = repository.NewPostgresUserRepository(db.DB)
		accountPrefs = repository.NewPostgresPreferenceRepository(db)
	} else {
		log.Println("DB_NAME not set; account storage is in-memory for this run.")
		userRepo = repository.NewInMemoryUserRepository()
		accountPrefs = repository.NewInMemoryPreferenceRepository()
	}

	guestStore := filestore.NewGuestStore(dataDir)

	var weatherProvider domain.WeatherProvider = provider.NewOpenWeatherClient(apiKey)

	var redisClient *redis.Client
	if host := os.Getenv("REDIS_HOST"); host != "" {
		rdb, err := cache.NewRedisClient(host, getenvDefault("REDIS_PORT", "6379"), os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Printf("Redis unavailable, running without snapshot cache: %v", err)
		} else {
			defer rdb.Close()
			redisClient = rdb
			weatherProvider = provider.NewCached(weatherProvider, rdb, 10*time.Minute)
		}
	}

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "skycast", 24*time.Hour, userRepo)
	prefService := services.NewPreferenceService(accountPrefs, guestStore)
	forecastService := services.NewForecastService(weatherProvider)
	snapshotService := services.NewSnapshotService(weatherProvider)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refreshWorker := workers.NewRefreshWorker(prefService, snapshotService)
	refreshWorker.Start(ctx)

	cron := scheduler.NewCronScheduler(refreshWorker)
	guestUnits := guestStore.GetPreferences(ctx).Units()
	if err := cron.Schedule(refreshInterval, workers.RefreshJob{Identity: domain.Guest, Units: guestUnits}); err != nil {
		log.Printf("Snapshot refresh disabled: %v", err)
	}
	defer cron.Stop()

	authHandler := adapterHTTP.NewAuthHandler(authService, tokenService)
	prefHandler := adapterHTTP.NewPreferenceHandler(prefService)
	weatherHandler := adapterHTTP.NewWeatherHandler(forecastService, snapshotService, prefService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       authHandler,
		PreferenceHandler: prefHandler,
		WeatherHandler:    weatherHandler,
		TokenService:      tokenService,
		DB:                db,
		Redis:             redisClient,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("SkyCast running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
