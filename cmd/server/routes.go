package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/interfaces/http/handlers"
	"nft-storefront.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "nft-storefront-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	sessionHandler     *handlers.SessionHandler
	shellHandler       *handlers.ShellHandler
	marketplaceHandler *handlers.MarketplaceHandler
	collectionHandler  *handlers.CollectionHandler
	mintHandler        *handlers.MintHandler
	metadataHandler    *handlers.MetadataHandler
	activityHandler    *handlers.ActivityHandler
	sessionMiddleware  gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	connected := middleware.RequireConnected()

	v1 := r.Group("/api/v1")
	{
		// Session routes
		v1.POST("/sessions", d.sessionHandler.CreateSession)
		sessions := v1.Group("/sessions")
		sessions.Use(d.sessionMiddleware)
		{
			sessions.GET("/me", d.sessionHandler.GetSession)
			sessions.POST("/connect", d.sessionHandler.Connect)
			sessions.POST("/disconnect", d.sessionHandler.Disconnect)
		}

		shell := v1.Group("/shell")
		shell.Use(d.sessionMiddleware)
		{
			shell.GET("", d.shellHandler.GetShell)
			shell.PUT("/tab", d.shellHandler.SelectTab)
		}

		// Marketplace: browsing is public, buying needs a connected wallet
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("/listings", d.marketplaceHandler.ListListings)
			marketplace.POST("/buy", d.sessionMiddleware, connected, d.marketplaceHandler.Buy)
		}

		collection := v1.Group("/collection")
		{
			collection.GET("", d.sessionMiddleware, connected, d.collectionHandler.MyCollection)
			collection.GET("/:address", d.collectionHandler.ByAddress)
		}

		v1.POST("/mint", d.sessionMiddleware, connected, d.mintHandler.Mint)
		v1.GET("/metadata", d.metadataHandler.Resolve)
		v1.GET("/activity", d.sessionMiddleware, d.activityHandler.ListActivity)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, h http.Handler) {
	r.GET("/metrics", gin.WrapH(h))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
