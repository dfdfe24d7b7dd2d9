package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"frontdesk-backend/config"
	"frontdesk-backend/controllers"
	"frontdesk-backend/routes"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

func envDuration(key string, def time.Duration) time.Duration {
	raw := utils.EnvOrDefault(key, "")
	if raw == "" {
		return def
	}
	if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return def
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("❌ failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set.")
	}

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Initialize services
	ledgerService := services.NewLedgerService(db)
	assetService := services.NewAssetService(utils.EnvOrDefault("UPLOADS_DIR", "uploads"))
	bookingService := services.NewBookingService(db, ledgerService, assetService)
	retention := envDuration("ARCHIVE_RETENTION_HOURS", services.DefaultRetention)
	archiveService := services.NewArchiveService(db, retention)
	statsService := services.NewStatsService(db)
	authService := services.NewAuthService(db, jwtSecret, envDuration("TOKEN_TTL_HOURS", 12*time.Hour))

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	bookingController := controllers.NewBookingController(bookingService)
	guestController := controllers.NewGuestController(db, ledgerService, assetService)
	statsController := controllers.NewStatsController(statsService)
	archiveController := controllers.NewArchiveController(archiveService)

	router := routes.SetupRouter(
		zlog,
		authService,
		authController,
		bookingController,
		guestController,
		statsController,
		archiveController,
	)

	// Periodic archive job
	archiveInterval := envDuration("ARCHIVE_INTERVAL_HOURS", 24*time.Hour)
	archiveStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(archiveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				summary, err := archiveService.Run()
				if err != nil {
					log.Printf("⚠️  archive run failed: %v", err)
					continue
				}
				log.Printf("archive run: %d bookings archived, %d guests affected, %d guests deleted",
					summary.BookingsArchived, summary.GuestsAffected, summary.GuestsDeleted)
			case <-archiveStop:
				return
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")
	close(archiveStop)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
