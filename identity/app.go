package identity

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finflow/config"
	"finflow/db"
	"finflow/logger"
	"finflow/repository"
	"finflow/service"
	"finflow/token"
)

func Run() {
	config.LoadConfig(".")
	config.MustValidateSecrets()
	logger.Init()
	logger.Log.Info("Identity service configuration loaded")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations", db.URL()); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	jwtCfg := config.AppConfig.JWT
	issuer, err := token.NewIssuer(
		jwtCfg.AccessSecret,
		jwtCfg.RefreshSecret,
		time.Duration(jwtCfg.AccessTTLMinutes)*time.Minute,
		time.Duration(jwtCfg.RefreshTTLDays)*24*time.Hour,
		nil,
	)
	if err != nil {
		logger.Log.Fatalf("Error building token issuer: %v", err)
	}
	verifier, err := token.NewVerifier(jwtCfg.AccessSecret, jwtCfg.RefreshSecret, nil)
	if err != nil {
		logger.Log.Fatalf("Error building token verifier: %v", err)
	}
	rotator := token.NewRotator(issuer, verifier)

	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	h := NewHandler(authService, userService, issuer, verifier, rotator)
	r := NewRouter(h)

	port := config.AppConfig.Identity.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Identity service starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
