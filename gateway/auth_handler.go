package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"finflow/common"
	"finflow/logger"
	"finflow/model"
)

const (
	// Registration and login tolerate a slower identity service than
	// read-only lookups: hashing is deliberately expensive.
	registerTimeout = 30 * time.Second
	loginTimeout    = 15 * time.Second
	logoutTimeout   = 10 * time.Second
)

// AuthHandler proxies authentication traffic to the identity service and owns
// the refresh cookie: the refresh token never reaches the client body, only
// the HTTP-only cookie.
type AuthHandler struct {
	identity      *Client
	secureCookies bool
	refreshMaxAge int
}

func NewAuthHandler(identity *Client, secureCookies bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		secureCookies: secureCookies,
		refreshMaxAge: int(refreshTTL.Seconds()),
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "New user data"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid payload or email already registered"
// @Failure      503  {object}  common.AppError "Identity service unavailable"
// @Failure      504  {object}  common.AppError "Identity service timeout"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	resp, appErr := h.identity.Do(r.Context(), http.MethodPost, "/users/register", body, nil, registerTimeout)
	if appErr != nil {
		return appErr
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return upstreamError(resp, "Registration failed")
	}

	relay(w, resp)
	return nil
}

// Login godoc
// @Summary      Authenticate and receive an access token
// @Description  The refresh token is delivered in an HTTP-only cookie; only the access token appears in the body.
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "User credentials"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Incorrect email or password"
// @Failure      503  {object}  common.AppError "Identity service unavailable"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	body, err := json.Marshal(req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	resp, appErr := h.identity.Do(r.Context(), http.MethodPost, "/users/login", body, nil, loginTimeout)
	if appErr != nil {
		return appErr
	}
	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp, "Login failed")
	}

	return h.respondWithPair(w, resp)
}

// Refresh godoc
// @Summary      Rotate the refresh token into a new pair
// @Description  Reads the refresh cookie, redeems it at the identity service, and replaces the cookie with the newly issued refresh token.
// @Tags         authentication
// @Produce      json
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Missing, expired or invalid refresh token"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is required", nil)
	}

	body, err := json.Marshal(model.RefreshRequest{RefreshToken: cookie.Value})
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	resp, appErr := h.identity.Do(r.Context(), http.MethodPost, "/users/refresh", body, nil, loginTimeout)
	if appErr != nil {
		return appErr
	}
	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp, "Token refresh failed")
	}

	return h.respondWithPair(w, resp)
}

// Logout godoc
// @Summary      End the session
// @Description  Clears the refresh cookie whether or not the identity service call succeeded.
// @Tags         authentication
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if _, appErr := h.identity.Do(r.Context(), http.MethodPost, "/users/logout", nil, nil, logoutTimeout); appErr != nil {
		logger.Log.WithError(appErr.Err).Warn("Identity logout call failed, clearing cookie anyway")
	}

	h.clearRefreshCookie(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"detail": "logged out"})
	return nil
}

// Me godoc
// @Summary      Fetch the authenticated user's profile
// @Tags         authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      503  {object}  common.AppError "Identity service unavailable"
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	profile, ok := r.Context().Value(ProfileKey).(*model.User)
	if !ok {
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", nil)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
	return nil
}

// respondWithPair moves the refresh token from the identity response into the
// cookie and returns only the access token to the client.
func (h *AuthHandler) respondWithPair(w http.ResponseWriter, resp *UpstreamResponse) *common.AppError {
	var pair model.TokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	h.setRefreshCookie(w, pair.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.TokenPair{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
	})
	return nil
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   h.refreshMaxAge,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
