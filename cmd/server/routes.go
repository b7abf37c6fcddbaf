package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"charter-ops.backend/internal/interfaces/http/handlers"
	"charter-ops.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	templateHandler    *handlers.TemplateHandler
	contractHandler    *handlers.ContractHandler
	signerHandler      *handlers.SignerHandler
	adminHandler       *handlers.AdminHandler
	authMiddleware     gin.HandlerFunc
	adminKeyMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Template catalog (staff)
		templates := v1.Group("/contract-templates")
		templates.Use(d.authMiddleware)
		{
			templates.POST("", d.templateHandler.CreateTemplate)
			templates.GET("", d.templateHandler.ListTemplates)
			templates.GET("/:id", d.templateHandler.GetTemplate)
			templates.PUT("/:id", d.templateHandler.UpdateTemplate)
			templates.PUT("/:id/active", d.templateHandler.SetActive)
			templates.DELETE("/:id", d.templateHandler.DeleteTemplate)
		}

		// Contract lifecycle (staff)
		contracts := v1.Group("/contracts")
		contracts.Use(d.authMiddleware)
		{
			contracts.POST("", middleware.IdempotencyMiddleware(), d.contractHandler.IssueContract)
			contracts.GET("", d.contractHandler.ListContracts)
			contracts.GET("/:id", d.contractHandler.GetContract)
			contracts.GET("/code/:code", d.contractHandler.GetContractByCode)
			contracts.GET("/:id/body", d.contractHandler.GetRenderedBody)
			contracts.POST("/:id/request-signature", d.contractHandler.RequestSignature)
			contracts.POST("/:id/sign", d.contractHandler.SignContract)
			contracts.POST("/:id/invalidate", d.contractHandler.InvalidateContract)
			contracts.DELETE("/:id", d.contractHandler.DeleteContract)
		}

		// Public signer surface: the access token is the sole authorization
		v1.GET("/sign/:token", d.signerHandler.GetContractView)
		v1.POST("/sign/:token", d.signerHandler.Sign)

		// Maintenance (admin API key)
		admin := v1.Group("/admin")
		admin.Use(d.adminKeyMiddleware)
		{
			admin.POST("/contracts/expire-sweep", d.adminHandler.ExpireSweep)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID, Idempotency-Key, X-Admin-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
