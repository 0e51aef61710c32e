package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finflow/common"
	"finflow/model"
	"finflow/token"
)

type contextKey string

const (
	// UserIDKey carries the verified subject id for downstream handlers.
	UserIDKey contextKey = "userID"
	// ProfileKey carries the full user record when the profile path ran.
	ProfileKey contextKey = "userProfile"
	// AccessTokenKey carries the raw presented token for forwarding upstream.
	AccessTokenKey contextKey = "accessToken"
)

const profileFetchTimeout = 10 * time.Second

// AuthMiddleware is the per-request filter in front of every protected route.
// The fast path verifies the presented token locally against the shared
// signing secrets; the profile path additionally fetches the authoritative
// user record from the identity service.
type AuthMiddleware struct {
	verifier *token.Verifier
	identity *Client
}

func NewAuthMiddleware(verifier *token.Verifier, identity *Client) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, identity: identity}
}

// RequireAuth verifies the access token and attaches the subject id to the
// request context. No network call is made.
func (m *AuthMiddleware) RequireAuth(next common.HandlerFunc) common.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		claims, accessToken, appErr := m.verify(r)
		if appErr != nil {
			return appErr
		}

		userID, err := claims.UserID()
		if err != nil {
			return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", err)
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, AccessTokenKey, accessToken)
		return next(w, r.WithContext(ctx))
	}
}

// RequireProfile verifies the access token locally, then fetches the current
// profile record from the identity service, forwarding the caller's refresh
// cookie so the identity side can run the same binding check.
func (m *AuthMiddleware) RequireProfile(next common.HandlerFunc) common.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		_, accessToken, appErr := m.verify(r)
		if appErr != nil {
			return appErr
		}

		header := http.Header{}
		if cookie, err := r.Cookie("refresh_token"); err == nil {
			header.Set("Cookie", (&http.Cookie{Name: "refresh_token", Value: cookie.Value}).String())
		}

		resp, appErr := m.identity.Do(r.Context(), http.MethodGet,
			"/users/me?token="+url.QueryEscape(accessToken), nil, header, profileFetchTimeout)
		if appErr != nil {
			return appErr
		}
		if resp.StatusCode != http.StatusOK {
			return upstreamError(resp, "Invalid token")
		}

		var profile model.User
		if err := json.Unmarshal(resp.Body, &profile); err != nil {
			return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
		}

		ctx := context.WithValue(r.Context(), UserIDKey, profile.ID)
		ctx = context.WithValue(ctx, ProfileKey, &profile)
		ctx = context.WithValue(ctx, AccessTokenKey, accessToken)
		return next(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) verify(r *http.Request) (*token.AccessClaims, string, *common.AppError) {
	accessToken, appErr := extractAccessToken(r)
	if appErr != nil {
		return nil, "", appErr
	}

	refreshToken := ""
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	}

	claims, err := m.verifier.VerifyAccess(accessToken, refreshToken)
	if err != nil {
		return nil, "", verificationError(err)
	}
	return claims, accessToken, nil
}

// extractAccessToken takes the Authorization header first, then the legacy
// token query parameter.
// TODO: retire the query parameter once no client sends it anymore.
func extractAccessToken(r *http.Request) (string, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			return "", common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
		}
		return headerParts[1], nil
	}

	if legacy := r.URL.Query().Get("token"); legacy != "" {
		return legacy, nil
	}

	return "", common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
}

func verificationError(err error) *common.AppError {
	switch err {
	case token.ErrExpired:
		return common.NewAppError(http.StatusUnauthorized, "Token has expired", nil)
	case token.ErrBindingMismatch:
		return common.NewAppError(http.StatusUnauthorized, "Token binding mismatch", nil)
	default:
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
	}
}
