package router

import (
	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/handler"
	"github.com/freelancehq/freelance-tracker/internal/middleware"
)

// RegisterAPI registers every owner-scoped resource endpoint. All routes
// require a valid bearer token; extra middlewares (rate limiting) are
// appended after JWT validation so buckets can key on the user.
func RegisterAPI(e *echo.Echo,
	cl *handler.ClientHandler,
	pr *handler.ProjectHandler,
	pay *handler.PaymentHandler,
	dash *handler.DashboardHandler,
	jwtSecret string,
	extra ...echo.MiddlewareFunc,
) {
	mws := append([]echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}, extra...)
	g := e.Group("", mws...)

	// ---- Clients ----
	g.GET("/clients", cl.List)
	g.POST("/clients", cl.Create)
	g.DELETE("/clients/:id", cl.Delete)

	// ---- Projects ----
	g.GET("/projects", pr.List)
	g.POST("/projects", pr.Create)
	g.PATCH("/projects/:id", pr.Update)
	g.DELETE("/projects/:id", pr.Delete)

	// ---- Payments ----
	g.GET("/payments", pay.List)
	g.POST("/payments", pay.Create)
	g.PATCH("/payments/:id", pay.Update)
	g.DELETE("/payments/:id", pay.Delete)

	// ---- Dashboard ----
	g.GET("/dashboard", dash.Stats)
}
