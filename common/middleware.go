package common

import "net/http"

// HandlerFunc is the shape of every handler in the three services: business
// failures come back as an *AppError instead of being written ad hoc.
type HandlerFunc func(http.ResponseWriter, *http.Request) *AppError

// ErrorHandlingMiddleware adapts a HandlerFunc for the mux and sends any
// returned AppError as the response.
func ErrorHandlingMiddleware(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
