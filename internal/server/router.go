package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nursan/golistings/internal/auth"
	"github.com/nursan/golistings/internal/catalog"
	"github.com/nursan/golistings/internal/config"
	"github.com/nursan/golistings/internal/listing"
	"github.com/nursan/golistings/internal/logger"
	"github.com/nursan/golistings/internal/metrics"
	"github.com/nursan/golistings/internal/storage"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	Store          *storage.Client
	AuthService    *auth.Service
	ListingService *listing.Service
	CatalogService *catalog.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	metrics.InitMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(deps.Config.CORS))

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	if deps.AuthService != nil {
		auth.RegisterRoutes(router.Group("/"), deps.AuthService)
	}

	public := router.Group("/public")
	if deps.ListingService != nil {
		listing.RegisterPublicRoutes(public, deps.ListingService)
	}
	if deps.CatalogService != nil {
		catalog.RegisterRoutes(public, deps.CatalogService)
	}

	if deps.AuthService != nil && deps.ListingService != nil {
		private := router.Group("/private")
		private.Use(auth.AuthMiddleware(deps.AuthService))
		listing.RegisterPrivateRoutes(private, deps.ListingService)
	}

	return router
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", logger.CorrelationIDHeader},
	}

	allowAll := len(cfg.AllowedOrigins) == 0
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	if allowAll {
		// Credentials cannot be combined with a wildcard origin.
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}

	return cors.New(corsCfg)
}
