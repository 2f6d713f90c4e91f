package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// newTestContext builds an echo context for a handler under test. A non-zero
// userID simulates the JWT middleware having run.
func newTestContext(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

// httpStatus extracts the status code from a handler result
func httpStatus(err error, rec *httptest.ResponseRecorder) int {
	if err == nil {
		return rec.Code
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
