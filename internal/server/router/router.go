package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.PosHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/pos")
	{
		api.GET("/products", handler.ListProducts)
		api.POST("/products/refresh", handler.Refresh)
		api.GET("/categories", handler.ListCategories)

		api.GET("/cart", handler.GetCart)
		api.POST("/cart/items", handler.AddItem)
		api.PATCH("/cart/items/:productId", handler.AdjustQuantity)
		api.DELETE("/cart/items/:productId", handler.RemoveItem)
		api.DELETE("/cart", handler.ClearCart)

		api.POST("/checkout", handler.Checkout)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

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
