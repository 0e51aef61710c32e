package ledger

import (
	"context"
	"net/http"
	"strconv"

	"finflow/common"
)

type contextKey string

// UserIDKey carries the identity asserted by the gateway's X-User-ID header.
const UserIDKey contextKey = "userID"

// RequireUserHeader admits only requests carrying the gateway's trust header.
// The header is honored without token verification: the ledger listener must
// only be reachable from the internal network segment, where every request
// has already passed the gateway's checks. Exposing this service directly to
// clients would let anyone assert any identity.
func RequireUserHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			err := common.NewAppError(http.StatusUnauthorized, "X-User-ID header is required", nil)
			err.Send(w)
			return
		}

		userID, err := strconv.Atoi(header)
		if err != nil || userID <= 0 {
			appErr := common.NewAppError(http.StatusUnauthorized, "Invalid X-User-ID header", err)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
