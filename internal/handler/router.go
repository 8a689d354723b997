package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stempelwerk/loyalty/internal/config"
	"stempelwerk/loyalty/internal/handler/middleware"
	jwtpkg "stempelwerk/loyalty/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	cardHandler *CardHandler,
	instanceHandler *InstanceHandler,
	tokenHandler *TokenHandler,
	analyticsHandler *AnalyticsHandler,
	sseHandler *SSEHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		// Merchant-side card templates
		protected.POST("/definitions", cardHandler.CreateDefinition)
		protected.GET("/definitions", cardHandler.ListDefinitions)
		protected.GET("/definitions/:id", cardHandler.GetDefinition)
		protected.PUT("/definitions/:id", cardHandler.UpdateDefinition)
		protected.DELETE("/definitions/:id", cardHandler.DeleteDefinition)

		// Customer-side card instances
		protected.POST("/cards", instanceHandler.Create)
		protected.GET("/cards", instanceHandler.List)

		// Token exchanges
		protected.POST("/tokens/grant", tokenHandler.IssueGrant)
		protected.POST("/tokens/grant/redeem", tokenHandler.RedeemGrant)
		protected.POST("/tokens/redemption/redeem", tokenHandler.RedeemFullCard)

		// Tiering and merchant statistics
		protected.GET("/levels/:user_id", cardHandler.GetCustomerLevel)
		protected.GET("/analytics/definitions", analyticsHandler.DefinitionTotals)

		// Push events
		protected.GET("/events", sseHandler.Stream)
	}

	return r
}
