package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authd/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	sessionHandler *handler.SessionHandler,
	resetHandler *handler.ResetHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Bienvenue"})
	})

	e.POST("/users", userHandler.Register)
	e.POST("/sessions", sessionHandler.Login)
	e.DELETE("/sessions", sessionHandler.Logout)
	e.GET("/profile", sessionHandler.Profile)
	e.POST("/reset_password", resetHandler.IssueToken)
	e.PUT("/reset_password", resetHandler.UpdatePassword)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
