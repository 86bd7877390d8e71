package router

import (
	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/handler"
	"github.com/freelancehq/freelance-tracker/internal/middleware"
)

// RegisterAuth registers the authentication routes. Register, login,
// refresh and logout operate without a session; /auth/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and returns a fresh pair.
	g.POST("/refresh", a.Refresh)
	// Revokes the presented refresh token; returns 204 on success.
	g.POST("/logout", a.Logout)

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
