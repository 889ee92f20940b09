package handlers

import (
	"opsmanual/internal/common"
	"opsmanual/internal/services"
	"opsmanual/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	minLoginPasswordLength = 6
	minResetPasswordLength = 8
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := common.ValidateEmail(req.Email)
	if err != nil {
		return err
	}
	if err := common.ValidatePassword(req.Password, "password", minLoginPasswordLength); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, resp)
}

// Refresh issues a new access token for a valid refresh token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.RefreshToken, "refresh_token"); err != nil {
		return err
	}

	resp, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, resp)
}

// Logout revokes the refresh token. Unknown or missing tokens still succeed.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req RefreshRequest
	_ = c.Bind(&req)

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return message(c, "Logged out successfully")
}

// RequestPasswordReset always answers with the same message so callers
// cannot probe which addresses have accounts.
func (h *AuthHandlers) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := common.ValidateEmail(req.Email)
	if err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), email); err != nil {
		logger.Log.WithError(err).Error("password reset request failed")
	}
	return message(c, "If the email exists, a reset link has been sent")
}

func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Token, "token"); err != nil {
		return err
	}
	if err := common.ValidatePassword(req.NewPassword, "new_password", minResetPasswordLength); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return message(c, "Password reset successfully")
}

// Me returns the profile of the authenticated user.
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.authService.CurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ok(c, profile)
}
