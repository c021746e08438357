package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/edulink/school-system/docs"
	"github.com/edulink/school-system/internal/api/handler"
	"github.com/edulink/school-system/internal/api/middleware"
	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
	"github.com/edulink/school-system/internal/core/service"
	"github.com/edulink/school-system/internal/infrastructure/config"
	mongodb "github.com/edulink/school-system/internal/infrastructure/db/mongo"
	redisdb "github.com/edulink/school-system/internal/infrastructure/db/redis"
	"github.com/edulink/school-system/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("school"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	schoolRepo := mongodb.NewSchoolRepository(db)
	bindingRepo := mongodb.NewRoleBindingRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	accountCache := redisdb.NewAccountCache(rdb)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(accountRepo, accountCache, tokenService, audit, cfg.MaxFailedLogins, log)
	resolver := service.NewIdentityResolver(tokenService, accountRepo, accountCache, bindingRepo, schoolRepo, audit, log)
	gate := service.NewGate(schoolRepo, bindingRepo, audit, log)
	schoolService := service.NewSchoolService(schoolRepo, bindingRepo, log)
	courseService := service.NewCourseService(courseRepo, schoolRepo, log)

	authHandler := handler.NewAuthHandler(authService, !cfg.Debug())
	schoolHandler := handler.NewSchoolHandler(schoolService, gate)
	courseHandler := handler.NewCourseHandler(courseService, gate)

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Resolver:       resolver,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Protected API ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/me", authHandler.Me)
	v1.POST("/schools", schoolHandler.Create)
	v1.GET("/schools", schoolHandler.List)
	v1.GET("/schools/mine", schoolHandler.Mine)
	v1.GET("/schools/:id", schoolHandler.Get)
	v1.POST("/schools/:id/staff", schoolHandler.AddStaff)
	v1.GET("/schools/:id/courses", courseHandler.ListBySchool)
	v1.POST("/courses", courseHandler.Create,
		middleware.RBAC(domain.UserTypeProfessor, domain.UserTypeSchoolAdmin, domain.UserTypePlatformAdmin))
	v1.GET("/courses/:id", courseHandler.Get)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
