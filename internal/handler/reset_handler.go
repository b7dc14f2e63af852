package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authd/internal/errors"
	"authd/internal/service"
)

// ResetHandler handles the forgot-password flow.
type ResetHandler struct {
	reset service.ResetService
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(reset service.ResetService) *ResetHandler {
	return &ResetHandler{reset: reset}
}

// ResetTokenRequest asks for a reset token by email.
type ResetTokenRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// UpdatePasswordRequest consumes a reset token to set a new password.
type UpdatePasswordRequest struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	ResetToken  string `json:"reset_token" form:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

// IssueToken issues a single-use reset token for a registered email.
func (h *ResetHandler) IssueToken(c echo.Context) error {
	var req ResetTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "email is required"})
	}

	token, err := h.reset.IssueToken(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownEmail) {
			return c.NoContent(http.StatusForbidden)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email":       req.Email,
		"reset_token": token,
	})
}

// UpdatePassword rotates the password for the user holding the reset token.
// The token is consumed in the same update, so retries fail with 403.
func (h *ResetHandler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "email, reset_token and new_password are required"})
	}

	if err := h.reset.ConsumeToken(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		if errors.Is(err, apperrors.ErrInvalidResetToken) {
			return c.NoContent(http.StatusForbidden)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email":   req.Email,
		"message": "Password updated",
	})
}
