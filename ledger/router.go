package ledger

import (
	"net/http"

	"finflow/common"
)

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /transactions/", RequireUserHeader(common.ErrorHandlingMiddleware(h.ListTransactions)))
	mux.Handle("POST /transactions/create", RequireUserHeader(common.ErrorHandlingMiddleware(h.CreateTransaction)))
	mux.Handle("GET /transactions/categories", common.ErrorHandlingMiddleware(h.GetCategories))

	mux.HandleFunc("GET /health", common.HealthCheck)

	return mux
}
