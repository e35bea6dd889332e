package handler

import (
	"wallet-ledger/config"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	HealthCheckers []ports.HealthChecker
	Docs           config.DocsConfig // empty password = docs disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Liveness and deep health checks
	r.GET("/ping", Ping)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation behind HTTP basic auth
	if deps.Docs.Password != "" {
		docs := r.Group("/docs", gin.BasicAuth(gin.Accounts{
			deps.Docs.Username: deps.Docs.Password,
		}))
		docs.GET("", SwaggerUI)
		docs.GET("/spec", SwaggerSpec)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.CreateWallet)
		wallets.POST("/:wallet_id/operation", walletHandler.Operation)
		wallets.GET("/:wallet_id", walletHandler.GetWallet)
	}

	return r
}
