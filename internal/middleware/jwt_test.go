package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancehq/freelance-tracker/internal/utils"
)

const testSecret = "unit-test-secret"

// runJWT sends a request through JWTAuth into a probe handler that
// reports what landed in the context.
func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured any
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		captured = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, captured
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, 15)
	require.NoError(t, err)

	rec, uid := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	// JWT numeric claims decode as float64.
	assert.Equal(t, float64(7), uid)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, uid := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uid)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	rec, _ := runJWT(t, "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("some-other-secret", 7, 15)
	require.NoError(t, err)

	rec, uid := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uid)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, -5)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
