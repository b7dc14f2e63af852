package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/model"
	"authd/internal/service"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// SessionHandler handles login, logout, and profile endpoints.
type SessionHandler struct {
	identity service.IdentityService
	sessions service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(identity service.IdentityService, sessions service.SessionService) *SessionHandler {
	return &SessionHandler{identity: identity, sessions: sessions}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// credentials pulls email and password from the Authorization: Basic header
// when present, falling back to the form/JSON body.
func (h *SessionHandler) credentials(c echo.Context) (email, password string, err error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if email, password, ok := auth.ParseBasicAuth(header); ok {
			return email, password, nil
		}
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	return req.Email, req.Password, nil
}

// Login verifies credentials and issues a session cookie.
func (h *SessionHandler) Login(c echo.Context) error {
	email, password, err := h.credentials(c)
	if err != nil {
		return err
	}

	valid, err := h.identity.ValidateLogin(c.Request().Context(), email, password)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}
	if !valid {
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Message: apperrors.ErrInvalidCredentials.Error()})
	}

	token, err := h.sessions.CreateSession(c.Request().Context(), email)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}
	if token == "" {
		// The user vanished between validation and session creation.
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Message: apperrors.ErrInvalidCredentials.Error()})
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"email":   email,
		"message": "logged in",
	})
}

// Logout destroys the session named by the cookie and redirects home.
func (h *SessionHandler) Logout(c echo.Context) error {
	user, err := h.sessionUser(c)
	if err != nil {
		return err
	}
	if user == nil {
		return c.NoContent(http.StatusForbidden)
	}

	if err := h.sessions.DestroySession(c.Request().Context(), user.ID); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Message: httpErr.Message})
	}

	c.SetCookie(&http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.Redirect(http.StatusFound, "/")
}

// Profile returns the email of the user owning the session cookie.
func (h *SessionHandler) Profile(c echo.Context) error {
	user, err := h.sessionUser(c)
	if err != nil {
		return err
	}
	if user == nil {
		return c.NoContent(http.StatusForbidden)
	}
	return c.JSON(http.StatusOK, echo.Map{"email": user.Email})
}

// sessionUser resolves the session cookie to a user. A missing cookie or an
// unresolvable token yields (nil, nil); handlers answer 403.
func (h *SessionHandler) sessionUser(c echo.Context) (*model.User, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := h.sessions.ResolveSession(c.Request().Context(), cookie.Value)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return user, nil
}
