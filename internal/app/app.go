package app

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paybridge/server/internal/module/payby/entity"
	"github.com/paybridge/server/internal/shared/config"
	"github.com/paybridge/server/internal/shared/database"
	"github.com/paybridge/server/internal/shared/errors"
	"github.com/paybridge/server/internal/shared/middleware"
)

// App represents the application.
type App struct {
	deps   *Dependencies
	router *gin.Engine
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	if err := migrate(deps); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	app := &App{deps: deps}
	app.router = app.setupRouter()
	app.registerRoutes()
	return app, nil
}

// migrate creates or updates the payment tables.
func migrate(deps *Dependencies) error {
	return deps.DB.AutoMigrate(
		&entity.OrderEntity{},
		&entity.RefundEntity{},
		&entity.TransferEntity{},
		&entity.ConfigEntity{},
	)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.deps.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		appErr := errors.NotFound("route")
		c.JSON(appErr.StatusCode, appErr.ToResponse())
	})

	return r
}

// registerRoutes registers module routes.
func (a *App) registerRoutes() {
	// Gateway notifications land outside the versioned API surface.
	api := a.router.Group("/api")
	a.deps.WebhookHandler.RegisterRoutes(api)

	v1 := a.router.Group("/api/v1")
	a.deps.Handler.RegisterRoutes(v1)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.deps.Logger != nil {
		_ = a.deps.Logger.Sync()
	}
	if a.deps.Redis != nil {
		_ = a.deps.Redis.Close()
	}
	if a.deps.DB != nil {
		_ = database.Close(a.deps.DB)
	}
}
