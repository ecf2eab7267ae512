package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/api/middleware"
	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error)
	guestFn    func(ctx context.Context) (*ports.AuthResult, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.AuthResult, error)
	currentFn  func(ctx context.Context, userID int64) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) LoginWithRole(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, input)
}

func (s *stubAuthService) LoginGuest(ctx context.Context) (*ports.AuthResult, error) {
	return s.guestFn(ctx)
}

func (s *stubAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.currentFn(ctx, userID)
}

func newAuthTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if !input.RegisterAsCustomer {
				t.Fatalf("public registration must set RegisterAsCustomer")
			}
			if input.Role != domain.RoleUser {
				t.Fatalf("public registration must request the user role, got %s", input.Role)
			}
			return &ports.AuthResult{
				AccessToken: "token123",
				ExpiresIn:   1440,
				User:        &domain.User{ID: 1, Email: input.Email, Username: input.Username, Role: domain.RoleUser},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"alice@example.com","password":"Pass1234","username":"alice"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["access_token"] != "token123" {
		t.Fatalf("expected access token, got %v", resp["access_token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_IgnoresRequestedRole(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if input.Role != domain.RoleUser {
				t.Fatalf("role field in the body must not be honoured, got %s", input.Role)
			}
			return &ports.AuthResult{AccessToken: "t", ExpiresIn: 1440, User: &domain.User{Role: domain.RoleUser}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"mallory@example.com","password":"Pass1234","role":"admin"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"alice@example.com","password":"Pass1234"}`)

	_ = handler.Register(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/register", "not-json")

	_ = handler.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, &domain.ValidationError{Field: "password", Message: "password must contain at least one digit"}
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"alice@example.com","password":"password"}`)

	_ = handler.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
			if input.Role != domain.RoleAdmin || !input.RememberMe {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.AuthResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    10080,
				User:         &domain.User{ID: 9, Email: input.Email, Role: domain.RoleAdmin},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"boss@example.com","password":"Pass1234","role":"admin","remember_me":true}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["access_token"] != "access" || resp["refresh_token"] != "refresh" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
}

func TestAuthHandler_Login_RoleMismatch(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
			return nil, &domain.RoleMismatchError{Declared: input.Role}
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"Pass1234","role":"admin"}`)

	_ = handler.Login(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "User is not registered as admin" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong","role":"user"}`)

	_ = handler.Login(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "Invalid email or password" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestAuthHandler_Login_Deactivated(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrAccountDeactivated
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"Pass1234","role":"user"}`)

	_ = handler.Login(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "Account is deactivated" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestAuthHandler_Login_UnknownRole(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"Pass1234","role":"superuser"}`)

	_ = handler.Login(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Guest(t *testing.T) {
	stub := &stubAuthService{
		guestFn: func(ctx context.Context) (*ports.AuthResult, error) {
			return &ports.AuthResult{
				AccessToken: "guest-token",
				ExpiresIn:   120,
				User:        &domain.User{ID: 3, Email: "guest_1700000000@example.com", Role: domain.RoleGuest},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/guest", "")

	if err := handler.Guest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["access_token"] != "guest-token" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, hasRefresh := resp["refresh_token"]; hasRefresh {
		t.Fatalf("guest logins must not issue refresh tokens")
	}
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"garbage"}`)

	_ = handler.Refresh(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "Token is invalid or expired" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			if userID != 42 {
				t.Fatalf("expected user 42, got %d", userID)
			}
			return &domain.User{ID: 42, Email: "alice@example.com", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodGet, "/v1/auth/me", "")
	c.Set(middleware.CtxUserID, int64(42))
	c.Set(middleware.CtxRole, "user")
	c.Set(middleware.CtxIsGuest, false)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_NoClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newAuthTestContext(t, http.MethodGet, "/v1/auth/me", "")

	err := handler.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_CreateStaff(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if input.RegisterAsCustomer {
				t.Fatalf("staff creation must not force the customer role")
			}
			if input.Role != domain.RoleRestaurantStaff {
				t.Fatalf("expected staff role, got %s", input.Role)
			}
			return &ports.AuthResult{AccessToken: "t", ExpiresIn: 1440, User: &domain.User{Role: domain.RoleRestaurantStaff}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/staff",
		`{"email":"cook@example.com","password":"Pass1234","role":"restaurant_staff"}`)

	if err := handler.CreateStaff(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_CreateStaff_RejectsCustomerRole(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/staff",
		`{"email":"cook@example.com","password":"Pass1234","role":"user"}`)

	_ = handler.CreateStaff(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/v1/auth/logout", "")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Logged out successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
