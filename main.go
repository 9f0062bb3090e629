package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logger.Info(".env not found; continuing with environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set")
	}

	if err := config.ConnectDatabase(); err != nil {
		logger.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	logger.Info("database connection established, migrations applied")

	// Services
	allocatorService := services.NewAllocatorService(db, logger)
	lifecycleService := services.NewLifecycleService(db, logger)
	checkoutService := services.NewCheckoutService(db, logger)
	categoryService := services.NewCategoryService(db, logger)
	roomService := services.NewRoomService(db, logger)
	settingsService := services.NewSettingsService(db)
	authService := services.NewAuthService(db, jwtSecret, 12*time.Hour)

	// Controllers
	bookingController := controllers.NewBookingController(allocatorService, lifecycleService, logger)
	checkoutController := controllers.NewCheckoutController(checkoutService, logger)
	categoryController := controllers.NewCategoryController(categoryService, logger)
	roomController := controllers.NewRoomController(roomService, logger)
	settingsController := controllers.NewSettingsController(settingsService, logger)
	authController := controllers.NewAuthController(authService, logger)

	router := routes.SetupRouter(
		bookingController,
		checkoutController,
		categoryController,
		roomController,
		settingsController,
		authController,
		authService,
		logger,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("listen and serve failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server stopped gracefully")
}
