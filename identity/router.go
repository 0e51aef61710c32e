package identity

import (
	"net/http"

	"finflow/common"
)

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /users/register", common.ErrorHandlingMiddleware(h.Register))
	mux.Handle("POST /users/login", common.ErrorHandlingMiddleware(h.Login))
	mux.Handle("POST /users/refresh", common.ErrorHandlingMiddleware(h.Refresh))
	mux.Handle("POST /users/logout", common.ErrorHandlingMiddleware(h.Logout))
	mux.Handle("GET /users/me", common.ErrorHandlingMiddleware(h.Me))
	mux.Handle("PUT /users/me", common.ErrorHandlingMiddleware(h.UpdateMe))

	mux.HandleFunc("GET /health", common.HealthCheck)

	return mux
}
