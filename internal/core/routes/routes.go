package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AsonyaGh/Bina/internal/core/container"
	"github.com/AsonyaGh/Bina/internal/middleware"
	"github.com/AsonyaGh/Bina/pkg/security"
)

// RegisterPublicRoutes mounts everything reachable without a token: login
// and the health check.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
	router.GET("/health", middleware.HealthCheckHandler())
}

// RegisterProtectedRoutes mounts every domain route behind JWT validation.
// Role checks live on the individual routes.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("/api")
	protected.Use(security.JWTMiddleware())

	c.LocationHandler.RegisterRoutes(protected)
	c.MotorcycleHandler.RegisterRoutes(protected)
	c.TransferHandler.RegisterRoutes(protected)
	c.SaleHandler.RegisterRoutes(protected)
	c.UserHandler.RegisterRoutes(protected)
	c.ReportHandler.RegisterRoutes(protected)
	c.AuditLogHandler.RegisterRoutes(protected)
}

func NewRouter(c *container.Container, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(logger))

	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)

	return router
}
