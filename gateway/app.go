// Package gateway implements the public edge: it terminates client
// authentication, owns the refresh cookie, and forwards verified identities
// to the internal services.
package gateway

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finflow/config"
	"finflow/logger"
	"finflow/token"
)

func Run() {
	config.LoadConfig(".")
	config.MustValidateSecrets()
	logger.Init()
	logger.Log.Info("Gateway configuration loaded")

	jwtCfg := config.AppConfig.JWT
	verifier, err := token.NewVerifier(jwtCfg.AccessSecret, jwtCfg.RefreshSecret, nil)
	if err != nil {
		logger.Log.Fatalf("Error building token verifier: %v", err)
	}

	gwCfg := config.AppConfig.Gateway
	identityClient := NewClient("Users service", gwCfg.IdentityURL)
	ledgerClient := NewClient("Transactions service", gwCfg.LedgerURL)

	authMW := NewAuthMiddleware(verifier, identityClient)
	refreshTTL := time.Duration(jwtCfg.RefreshTTLDays) * 24 * time.Hour
	authHandler := NewAuthHandler(identityClient, gwCfg.SecureCookies, refreshTTL)
	transactionHandler := NewTransactionHandler(ledgerClient)

	r := NewRouter(authHandler, transactionHandler, authMW)

	port := gwCfg.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Gateway starting on port :%s", port)
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
