package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one structured line per request: method, path,
// status, duration, request id and the authenticated user when present.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Get("request_id"),
			}
			if uid := c.Get("user_id"); uid != nil {
				attrs = append(attrs, "user_id", uid)
			}
			if err != nil {
				attrs = append(attrs, "error", err)
				slog.Warn("request", attrs...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		}
	}
}
