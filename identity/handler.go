// Package identity implements the internal user service: registration, login,
// refresh rotation and profile management. It owns the signing of token pairs;
// the gateway only verifies them.
package identity

import (
	"encoding/json"
	"net/http"

	"finflow/common"
	"finflow/model"
	"finflow/service"
	"finflow/token"
)

type Handler struct {
	authService *service.AuthService
	userService *service.UserService
	issuer      *token.Issuer
	verifier    *token.Verifier
	rotator     *token.Rotator
}

func NewHandler(authService *service.AuthService, userService *service.UserService,
	issuer *token.Issuer, verifier *token.Verifier, rotator *token.Rotator) *Handler {
	return &Handler{
		authService: authService,
		userService: userService,
		issuer:      issuer,
		verifier:    verifier,
		rotator:     rotator,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "New user data"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid payload or email already registered"
// @Router       /users/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.authService.Register(req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken:
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate a user and issue a token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "User credentials"
// @Success      200  {object}  model.TokenPair
// @Failure      400  {object}  common.AppError "Inactive user"
// @Failure      401  {object}  common.AppError "Incorrect email or password"
// @Router       /users/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		case service.ErrInactiveUser:
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not authenticate user", err)
		}
	}

	pair, err := h.issuer.IssuePair(user.ID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not issue tokens", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token into a new token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        refresh body model.RefreshRequest true "Current refresh token"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Missing, expired or invalid refresh token"
// @Router       /users/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.rotator.Rotate(req.RefreshToken)
	if err != nil {
		return refreshError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
	return nil
}

// Logout godoc
// @Summary      End the session
// @Description  There is no server-side token store, so nothing is revoked; issued tokens stay valid until their own expiry. The gateway clears the refresh cookie.
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /users/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"detail": "logged out"})
	return nil
}

// Me godoc
// @Summary      Fetch the authenticated user's profile
// @Tags         users
// @Produce      json
// @Param        token query string true "Access token"
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := h.authenticate(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not fetch user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateMe godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        token query string true "Access token"
// @Param        profile body model.UpdateProfileRequest true "Fields to update"
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /users/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := h.authenticate(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdateProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.userService.UpdateProfile(userID, req)
	if err != nil {
		if err == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

// authenticate resolves the access token carried in the token query parameter
// (the gateway forwards it there) plus the refresh cookie, if the gateway
// propagated one, for binding verification.
func (h *Handler) authenticate(r *http.Request) (int, *common.AppError) {
	accessToken := r.URL.Query().Get("token")
	if accessToken == "" {
		return 0, common.NewAppError(http.StatusUnauthorized, "Token is required", nil)
	}

	refreshToken := ""
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	}

	claims, err := h.verifier.VerifyAccess(accessToken, refreshToken)
	if err != nil {
		return 0, common.NewAppError(http.StatusUnauthorized, "Invalid token", err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, common.NewAppError(http.StatusUnauthorized, "Invalid token", err)
	}
	return userID, nil
}

func refreshError(err error) *common.AppError {
	switch err {
	case token.ErrRefreshMissing:
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is required", nil)
	case token.ErrExpired:
		return common.NewAppError(http.StatusUnauthorized, "Refresh token has expired", nil)
	default:
		return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", err)
	}
}
