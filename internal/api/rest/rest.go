package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes (public read access)
	v1 := router.Group("/api/v1")
	{
		// Oracle endpoints
		v1.GET("/oracles/centralized", handler.ListCentralizedOracles)
		v1.GET("/oracles/ultimate", handler.ListUltimateOracles)
		v1.GET("/oracles/:address", handler.GetOracle)

		// Event endpoints
		v1.GET("/events", handler.ListEvents)
		v1.GET("/events/:address", handler.GetEvent)

		// Market endpoints
		v1.GET("/markets", handler.ListMarkets)
		v1.GET("/markets/:address", handler.GetMarket)

		// Outcome token ledger endpoints
		v1.GET("/tokens/:address/holders", handler.GetTokenHolders)
		v1.GET("/accounts/:address/balances", handler.GetAccountBalances)
	}
}
