package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func setupAuthEcho(secret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	g := e.Group("/admin", AdminAuth(secret))
	g.GET("/applications", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func authReq(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth_ValidToken(t *testing.T) {
	e := setupAuthEcho(testSecret)

	token, err := NewAdminToken(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAdminToken: %v", err)
	}
	rec := authReq(t, e, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	e := setupAuthEcho(testSecret)
	if rec := authReq(t, e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuth_NoBearerPrefix(t *testing.T) {
	e := setupAuthEcho(testSecret)
	token, _ := NewAdminToken(testSecret, time.Hour)
	if rec := authReq(t, e, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuth_WrongSecret(t *testing.T) {
	e := setupAuthEcho(testSecret)
	token, _ := NewAdminToken("other-secret", time.Hour)
	if rec := authReq(t, e, "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuth_ExpiredToken(t *testing.T) {
	e := setupAuthEcho(testSecret)
	token, _ := NewAdminToken(testSecret, -time.Minute)
	if rec := authReq(t, e, "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
