package ledger

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
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Ledger service configuration loaded")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations", db.URL()); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	transactionRepo := repository.NewTransactionRepository(database)
	transactionService := service.NewTransactionService(transactionRepo, redisClient)

	h := NewHandler(transactionService)
	r := NewRouter(h)

	port := config.AppConfig.Ledger.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Ledger service starting on port :%s", port)
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
