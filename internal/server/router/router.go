package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/auth"
	"github.com/mamadbah2/rakelog/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(rakes *handlers.RakeHandler, notifications *handlers.NotificationHandler, authMW *auth.Middleware, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/rakes/validate", authMW.Require(auth.RoleOperator), rakes.Validate)
		v1.POST("/rakes", authMW.Require(auth.RoleOperator), rakes.Submit)
		v1.GET("/rakes/recent", authMW.Require(auth.RoleViewer), rakes.Recent)
		v1.POST("/notifications", authMW.Require(auth.RoleSupervisor), notifications.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
