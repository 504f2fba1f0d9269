package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUp handles staff self-registration. The new account lands in pending
// state and cannot sign in until an admin activates it.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req ports.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignUp(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Sign-up failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// SignIn handles user sign-in
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req ports.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.SignIn(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUserInactive) {
			return echo.NewHTTPError(http.StatusForbidden, "Account is not active")
		}
		h.logger.Error("Sign-in failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Token refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		h.logger.Error("Logout failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
}

// ForgotPassword issues a password reset token. The response is the same
// whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		h.logger.Error("Password reset request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process reset request")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "If the account exists, a reset link has been sent"})
}

// ResetPassword consumes a reset token and sets a new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Password updated successfully"})
}

// UserHandler handles staff management requests
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser handles admin user creation
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req ports.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.CreateUser(c.Request().Context(), getClaimsFromContext(c), req)
	if err != nil {
		h.logger.Error("Create user failed", "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// GetCurrentUser handles getting current user info
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// GetUser handles getting user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateUser handles a partial update of a staff record
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), getClaimsFromContext(c), userID, req)
	if err != nil {
		h.logger.Error("Update user failed", "error", err, "user_id", userID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// ActivateUser flips a pending or inactive account to active
func (h *UserHandler) ActivateUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.ActivateUser(c.Request().Context(), getClaimsFromContext(c), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// DeactivateUser disables an account
func (h *UserHandler) DeactivateUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.DeactivateUser(c.Request().Context(), getClaimsFromContext(c), userID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a staff record
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), getClaimsFromContext(c), userID); err != nil {
		h.logger.Error("Delete user failed", "error", err, "user_id", userID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "User deleted successfully"})
}

// ListUsers handles listing staff
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := ports.UserFilter{}

	if role := c.QueryParam("role"); role != "" {
		userRole := entities.UserRole(role)
		if !userRole.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid role parameter")
		}
		filter.Role = &userRole
	}

	if status := c.QueryParam("status"); status != "" {
		userStatus := entities.UserStatus(status)
		if !userStatus.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &userStatus
	}

	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	users, err := h.userService.ListUsers(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List users failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve users")
	}

	return c.JSON(http.StatusOK, users)
}

// PreferenceHandler handles the per-user UI continuity record
type PreferenceHandler struct {
	prefService *services.PreferenceService
	logger      *logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(prefService *services.PreferenceService, logger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		prefService: prefService,
		logger:      logger,
	}
}

// GetPreferences returns the caller's continuity record
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	prefs, err := h.prefService.Get(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Error("Get preferences failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve preferences")
	}

	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences stores the caller's continuity record
func (h *PreferenceHandler) UpdatePreferences(c echo.Context) error {
	var req ports.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs, err := h.prefService.Update(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		h.logger.Error("Update preferences failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store preferences")
	}

	return c.JSON(http.StatusOK, prefs)
}

// Utility functions and helper types

func getUserIDFromContext(c echo.Context) uuid.UUID {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return uuid.Nil
	}
	userID, _ := uuid.Parse(claims.UserID)
	return userID
}

func getClaimsFromContext(c echo.Context) *ports.Claims {
	claims, ok := c.Get("claims").(*ports.Claims)
	if !ok {
		return nil
	}
	return claims
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return id, nil
}

// mapServiceError translates domain sentinel errors into HTTP errors.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrProjectNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	case errors.Is(err, entities.ErrStageTerminal):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrProjectArchived):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrEmptyComment),
		errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrTaskNotInColumn),
		errors.Is(err, entities.ErrUnknownColumn),
		errors.Is(err, entities.ErrUnknownStage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// RefreshTokenRequest is the token refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest is the reset-request payload
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the reset-confirmation payload
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}
