package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.StockHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/stocks", handler.List)
	r.GET("/stocks/state", handler.State)
	r.POST("/stocks/page", handler.SetPage)
	r.POST("/stocks/page-size", handler.SetPageSize)
	r.POST("/stocks/refetch", handler.Refetch)

	dialog := r.Group("/stocks/dialog")
	dialog.POST("/create", handler.OpenCreate)
	dialog.POST("/edit", handler.OpenEdit)
	dialog.POST("/delete", handler.OpenDelete)
	dialog.POST("/field", handler.SetField)
	dialog.POST("/submit", handler.Submit)
	dialog.POST("/cancel", handler.Cancel)
	dialog.POST("/confirm-delete", handler.ConfirmDelete)

	r.POST("/stocks/export", handler.Export)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
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
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()))
	}
}
