package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/taskforge/api/internal/ratelimit"
	"github.com/taskforge/api/internal/token"
	"github.com/taskforge/api/internal/transport/http/handler"
	"github.com/taskforge/api/internal/transport/http/middleware"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	tokens *token.Service,
	authLimiter ratelimit.Limiter,
	apiLimiter ratelimit.Limiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)
	authLimit := middleware.RateLimit(authLimiter, "auth", logger)
	apiLimit := middleware.RateLimit(apiLimiter, "api", logger)

	auth := r.Group("/auth")
	auth.POST("/register", authLimit, authHandler.Register)
	auth.POST("/login", authLimit, authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authMW, authHandler.Me)

	// Protected task routes; rate limiting runs before token verification.
	tasks := r.Group("/tasks", apiLimit, authMW)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/stats", taskHandler.Stats)
	tasks.GET("/:id", taskHandler.GetByID)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return r
}
