package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/service"
)

func issueTestToken(t *testing.T, svc *service.TokenService, role domain.Role, ttl time.Duration) string {
	t.Helper()
	token, err := svc.IssueAccessToken(42, role, ttl, false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")
	signed := issueTestToken(t, tokens, domain.RoleAdmin, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		if id, _ := c.Get(CtxUserID).(int64); id != 42 {
			t.Fatalf("user_id not set: %v", c.Get(CtxUserID))
		}
		if role, _ := c.Get(CtxRole).(string); role != "admin" {
			t.Fatalf("role not set: %v", c.Get(CtxRole))
		}
		if isGuest, _ := c.Get(CtxIsGuest).(bool); isGuest {
			t.Fatalf("is_guest should be false")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Token is missing" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuth_MalformedScheme(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")
	signed := issueTestToken(t, tokens, domain.RoleUser, time.Hour)

	for _, header := range []string{"Token " + signed, signed, "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(tokens)(func(c echo.Context) error {
			t.Fatalf("should not reach next for header %q", header)
			return nil
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")
	signed := issueTestToken(t, tokens, domain.RoleUser, -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Token is invalid or expired" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuth_TamperedToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")
	signed := issueTestToken(t, service.NewTokenService("other-secret"), domain.RoleAdmin, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret")
	refresh, err := tokens.IssueRefreshToken(42)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens)(func(c echo.Context) error {
		t.Fatalf("refresh tokens must not authenticate requests")
		return nil
	})

	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
