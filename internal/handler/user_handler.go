package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authd/internal/errors"
	"authd/internal/service"
)

// UserHandler handles the registration endpoint.
type UserHandler struct {
	identity service.IdentityService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(identity service.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Register creates a new user from email and password.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "email and password are required"})
	}

	user, err := h.identity.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailRegistered) {
			return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "email already registered"})
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email":   user.Email,
		"message": "user created",
	})
}
