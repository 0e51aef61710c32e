package gateway

import (
	"net/http"

	"finflow/common"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(authHandler *AuthHandler, transactionHandler *TransactionHandler, authMW *AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /auth/register", common.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /auth/login", common.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", common.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /auth/logout", common.ErrorHandlingMiddleware(authHandler.Logout))
	mux.Handle("GET /auth/me", common.ErrorHandlingMiddleware(authMW.RequireProfile(authHandler.Me)))

	mux.Handle("POST /transactions/", common.ErrorHandlingMiddleware(authMW.RequireAuth(transactionHandler.ListTransactions)))
	mux.Handle("GET /transactions/categories", common.ErrorHandlingMiddleware(authMW.RequireAuth(transactionHandler.GetCategories)))

	mux.HandleFunc("GET /health", common.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return mux
}
