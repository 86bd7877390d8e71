package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancehq/freelance-tracker/internal/config"
)

func TestTokenBucketNoopWhenDisabled(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenBucketNoopWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(uid any) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/clients")
		if uid != nil {
			c.Set("user_id", uid)
		}
		return c
	}

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	// JWT claims arrive as float64.
	assert.Equal(t, "rl:user:7", buildRateKey(cfg, newCtx(float64(7))))
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, newCtx(nil)))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.1.2.3", buildRateKey(cfg, newCtx(nil)))

	cfg.KeyStrategy = "user_route"
	assert.Equal(t, "rl:user:7:route:GET /clients", buildRateKey(cfg, newCtx(float64(7))))

	cfg.KeyStrategy = "something-else"
	assert.Equal(t, "rl:ip:10.1.2.3:user:7:route:GET /clients", buildRateKey(cfg, newCtx(float64(7))))
}
