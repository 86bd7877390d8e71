package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newJSONCtx builds an echo context for a handler call with a JSON body.
// callerID simulates what the JWT middleware stores; pass 0 to leave the
// context unauthenticated.
func newJSONCtx(t *testing.T, method, target, body string, callerID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if callerID != 0 {
		c.Set("user_id", callerID)
	}
	return c, rec
}

// decodeBody unmarshals the recorded response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// errMessage pulls the "message" field out of an error body.
func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	msg, _ := body["message"].(string)
	return msg
}
