package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tableup/restaurant-auth/internal/api/metrics"
	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

// AuthHandler exposes the authentication use cases over HTTP.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createStaffRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username"`
	Role     string `json:"role" validate:"required,oneof=admin restaurant_staff"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"`
	User         *domain.User `json:"user"`
}

// Register creates a new customer account.
//
// @Summary      Register a new customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:              req.Email,
		Password:           req.Password,
		Username:           req.Username,
		Role:               domain.RoleUser,
		RegisterAsCustomer: true,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return authErrorResponse(c, err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        result.User,
	})
}

// Login authenticates a user against a declared role.
//
// @Summary      Role-scoped login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and declared role"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	result, err := h.authService.LoginWithRole(c.Request().Context(), ports.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(req.Role, "failure").Inc()
		return authErrorResponse(c, err)
	}

	metrics.LoginsTotal.WithLabelValues(req.Role, "success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
		User:         result.User,
	})
}

// Guest provisions a fresh guest account and a short-lived guest token.
//
// @Summary      Guest login
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      500  {object}  map[string]string
// @Router       /v1/auth/guest [post]
func (h *AuthHandler) Guest(c echo.Context) error {
	result, err := h.authService.LoginGuest(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	metrics.GuestLoginsTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        result.User,
	})
}

// Refresh redeems a refresh token for a new access token.
//
// @Summary      Refresh an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return authErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        result.User,
	})
}

// Me returns the account behind the presented access token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards them; nothing is revoked server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CreateStaff creates an admin or staff account. The route is gated by
// RBAC(admin); the privileged registration path honours the requested role.
//
// @Summary      Create an admin or staff account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStaffRequest  true  "Account details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/auth/staff [post]
func (h *AuthHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:              req.Email,
		Password:           req.Password,
		Username:           req.Username,
		Role:               role,
		RegisterAsCustomer: false,
	})
	if err != nil {
		return authErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		User:        result.User,
	})
}

// authErrorResponse maps use-case errors to HTTP responses. Authentication
// failures share a 401 with the exact use-case message; validation and
// duplicate-email problems are client errors.
func authErrorResponse(c echo.Context, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
	}
	var rm *domain.RoleMismatchError
	if errors.As(err, &rm) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User is not registered as " + string(rm.Declared)})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	case errors.Is(err, domain.ErrAccountDeactivated):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Account is deactivated"})
	case errors.Is(err, domain.ErrEmailExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	case errors.Is(err, domain.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token is invalid or expired"})
	}
	return err
}
