package api

import (
	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tableup/restaurant-auth/docs"
	"github.com/tableup/restaurant-auth/internal/api/handler"
	"github.com/tableup/restaurant-auth/internal/api/middleware"
	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/service"
	mongodb "github.com/tableup/restaurant-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/tableup/restaurant-auth/internal/infrastructure/db/redis"
	"github.com/tableup/restaurant-auth/internal/pkg/config"
	"github.com/tableup/restaurant-auth/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, ids *snowflake.Node) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("restaurant_auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db, ids)
	orderRepo := mongodb.NewOrderRepository(db, ids)
	guestRegistry := redisdb.NewGuestRegistry(rdb)

	tokenService := service.NewTokenService(cfg.Auth.JWTSecret)
	authService := service.NewAuthService(userRepo, tokenService, guestRegistry, logger.Get(), service.AuthOptions{
		AccessTTL:   cfg.Auth.AccessTokenTTL,
		RememberTTL: cfg.Auth.RememberMeTTL,
		GuestTTL:    cfg.Auth.GuestTokenTTL,
	})
	orderService := service.NewOrderService(orderRepo, logger.Get())

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)

	authRequired := middleware.Auth(tokenService)
	kitchenOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleRestaurantStaff)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/guest", authHandler.Guest)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me, authRequired)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.POST("/staff", authHandler.CreateStaff, authRequired, adminOnly)

	// --- Kitchen routes (staff and admins only) ---
	kitchen := e.Group("/v1/kitchen", authRequired, kitchenOnly)
	kitchen.POST("/orders", orderHandler.Create)
	kitchen.GET("/orders", orderHandler.List)
	kitchen.GET("/orders/pending", orderHandler.ListPending)
	kitchen.GET("/orders/:id", orderHandler.Get)
	kitchen.PUT("/orders/:id", orderHandler.Update)
	kitchen.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	kitchen.DELETE("/orders/:id", orderHandler.Delete, adminOnly)
	kitchen.GET("/dashboard", orderHandler.Dashboard)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
