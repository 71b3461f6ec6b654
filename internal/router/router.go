package router

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bouncecure/config"
	"bouncecure/internal/auth"
	"bouncecure/internal/cache"
	"bouncecure/internal/database"
	"bouncecure/internal/directory"
	"bouncecure/internal/domain"
	"bouncecure/internal/handler"
	"bouncecure/internal/logger"
	"bouncecure/internal/middleware"
	"bouncecure/internal/repository"
	"bouncecure/internal/service"
	"bouncecure/internal/ws"
)

// Deps are the process-wide resources the HTTP layer is built on. Redis is
// optional; without it revocations and the list cache stay in process.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Log    *zap.Logger
}

// App is the assembled HTTP surface plus the services the server process
// needs outside of request handling.
type App struct {
	Engine  *gin.Engine
	Auth    *service.AuthService
	Hub     *ws.Hub
	limiter *middleware.InMemoryRateLimiter
}

// Close stops background work started by Setup.
func (a *App) Close() {
	a.limiter.Stop()
}

// corsConfig allows the configured dashboard origins. An empty list allows
// any origin, which is only sensible for local tooling.
func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Total-Count"},
		AllowCredentials: true,
	}
	if len(c.Origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = c.Origins
	}
	return cc
}

func Setup(d Deps) *App {
	cfg := d.Config
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// ClientIP keys the login limiter; only listed proxies may override it.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		d.Log.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(d.Log))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	// Stores
	var tokens auth.TokenStore = auth.NewMemoryTokenStore()
	var listCache cache.Cache
	if d.Redis != nil {
		tokens = auth.NewRedisTokenStore(d.Redis)
		listCache = cache.NewRedisCache(d.Redis, "bouncecure:")
	}

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)
	auditRepo := repository.NewAuditLogRepository(d.DB)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, userRepo, tokens, d.Log)
	dirSvc := service.NewDirectoryService(paymentRepo, directory.NewNormalizer(cfg.Display), d.Log).
		WithPublisher(hub)
	if listCache != nil {
		dirSvc.WithCache(listCache, cfg.Redis.CacheTTL)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo, d.Log)
	paymentHandler := handler.NewPaymentHandler(dirSvc, auditRepo, d.Log)
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, d.DB) },
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	healthHandler := handler.NewHealthHandler(d.Log, checks)

	limiter := middleware.NewInMemoryRateLimiter(cfg.Server.LoginRateLimit, cfg.Server.LoginWindow)
	authMw := middleware.AuthRequired(&cfg.JWT, tokens, d.Log)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	r.GET("/healthz", healthHandler.Health)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", middleware.RateLimit(limiter), authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		payments := api.Group("/payments")
		payments.Use(authMw, middleware.RequireRole(domain.RoleAdmin, domain.RoleViewer))
		{
			payments.GET("", paymentHandler.List)
			payments.GET("/:id", paymentHandler.Get)
			payments.PUT("/:id", adminMw, paymentHandler.Update)
			payments.PATCH("/:id", adminMw, paymentHandler.Update)
			payments.DELETE("/:id", adminMw, paymentHandler.Delete)
		}
	}

	r.GET("/ws/payments", ws.UpgradePaymentsWS(cfg, tokens, hub, d.Log))

	return &App{Engine: r, Auth: authSvc, Hub: hub, limiter: limiter}
}
