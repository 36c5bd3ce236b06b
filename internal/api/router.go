package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/akeray/property-system/docs"
	"github.com/akeray/property-system/internal/api/handler"
	"github.com/akeray/property-system/internal/api/middleware"
	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
	"github.com/akeray/property-system/internal/core/service"
	"github.com/akeray/property-system/internal/core/token"
	mongorepo "github.com/akeray/property-system/internal/infrastructure/db/mongo"
	redisrepo "github.com/akeray/property-system/internal/infrastructure/db/redis"
)

// Deps carries everything the router needs that is owned by main: open
// connections, the token issuer and the audit recorder.
type Deps struct {
	DB          *mongo.Database
	MongoClient *mongo.Client
	Redis       *redis.Client
	Mailer      ports.Mailer
	Recorder    ports.AuthEventRecorder
	Issuer      *token.Issuer
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("akeray"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Dependencies ---
	stores := mongorepo.NewPrincipalStores(deps.DB)
	limiter := redisrepo.NewResendLimiter(deps.Redis)
	propertyRepo := mongorepo.NewPropertyRepository(deps.DB)
	unitRepo := mongorepo.NewUnitRepository(deps.DB)

	authService := service.NewAuthService(stores, deps.Issuer, deps.Mailer, limiter, deps.Recorder, deps.Logger)
	propertyService := service.NewPropertyService(propertyRepo, unitRepo, stores.Owners, deps.Logger)
	adminService := service.NewAdminService(stores, deps.Logger)

	authHandler := handler.NewAuthHandler(authService, deps.Issuer.AccessTTL())
	propertyHandler := handler.NewPropertyHandler(propertyService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(deps.MongoClient, deps.Redis)

	authmw := middleware.Auth(deps.Issuer)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOwner, domain.RoleTenant} {
		auth.POST("/"+string(role)+"/signup", authHandler.Signup(role))
		auth.POST("/"+string(role)+"/login", authHandler.Login(role))
	}
	auth.POST("/tenant/verify-otp", authHandler.VerifyOTP)
	auth.POST("/tenant/resend-otp", authHandler.ResendOTP)
	auth.GET("/me", authHandler.Me, authmw)

	// --- Property routes (reads public, mutations owner/admin) ---
	properties := e.Group("/v1/properties")
	properties.GET("", propertyHandler.List)
	properties.GET("/:id", propertyHandler.Get)
	properties.GET("/:id/units", propertyHandler.ListUnits)

	mutate := middleware.RBAC(domain.RoleOwner, domain.RoleAdmin)
	properties.POST("", propertyHandler.Create, authmw, mutate)
	properties.PATCH("/:id", propertyHandler.Patch, authmw, mutate)
	properties.DELETE("/:id", propertyHandler.Delete, authmw, mutate)
	properties.POST("/:id/units", propertyHandler.AddUnit, authmw, mutate)

	units := e.Group("/v1/units", authmw, mutate)
	units.PATCH("/:id", propertyHandler.PatchUnit)
	units.DELETE("/:id", propertyHandler.RemoveUnit)

	// --- Admin routes ---
	admin := e.Group("/v1/admin", authmw, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/owners", adminHandler.ListOwners)
	admin.GET("/tenants", adminHandler.ListTenants)
	admin.PATCH("/owners/:id/status", adminHandler.SetOwnerStatus)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
