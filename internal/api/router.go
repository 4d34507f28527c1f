package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minishop/storefront/internal/api/handler"
	"github.com/minishop/storefront/internal/api/middleware"
	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/service"
	mongodb "github.com/minishop/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/minishop/storefront/internal/infrastructure/db/redis"
	"github.com/minishop/storefront/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	goodsRepo := mongodb.NewGoodsRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)

	identity := service.NewIdentityService(sessions, users, log)
	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, log)
	goods := service.NewGoodsService(goodsRepo, users, log)

	authHandler := handler.NewAuthHandler(auth, identity)
	goodsHandler := handler.NewGoodsHandler(goods)
	memberHandler := handler.NewMemberHandler()
	accountAPI := handler.NewAccountAPIHandler(auth)

	e.Use(middleware.Session(identity, cfg.JWTSecret))

	anonymousOnly := middleware.RequireRoles("/logout", domain.RoleAnonymous)
	membersOnly := middleware.RequireRoles("/login", domain.RoleNormal, domain.RoleSeller, domain.RoleAdmin)
	normalOnly := middleware.RequireRoles("", domain.RoleNormal)
	apiAuth := middleware.RequireRolesJSON(domain.RoleNormal, domain.RoleSeller, domain.RoleAdmin)

	// --- Auth routes ---
	e.GET("/register", authHandler.RegisterForm, anonymousOnly)
	e.POST("/register", authHandler.Register, anonymousOnly)
	e.GET("/login", authHandler.LoginForm, anonymousOnly)
	e.POST("/login", authHandler.Login, anonymousOnly)
	e.GET("/logout", authHandler.Logout)

	// --- Storefront routes ---
	e.GET("/", goodsHandler.List)
	e.GET("/goods", goodsHandler.List)
	e.GET("/goods/:id", goodsHandler.Detail)
	e.GET("/forbidden", memberHandler.Forbidden)

	// --- Member center ---
	e.GET("/member", memberHandler.Center, membersOnly)
	e.GET("/member/info", memberHandler.Info, normalOnly)
	e.GET("/member/email", memberHandler.EmailForm, normalOnly)
	e.GET("/member/password", memberHandler.PasswordForm, normalOnly)

	// --- JSON API (POST dispatch keyed by _ext_method) ---
	api := e.Group("/api", apiAuth)
	api.POST("/user/email", accountAPI.Email)
	api.GET("/user/email", handler.MethodNotSupported)
	api.POST("/user/password", accountAPI.Password)
	api.GET("/user/password", handler.MethodNotSupported)
	api.POST("/user/token", accountAPI.Token)
	api.GET("/user/token", handler.MethodNotSupported)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
