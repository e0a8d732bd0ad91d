package httpserver

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(logger, deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.GET("/products/featured", h.featuredProducts)
	api.GET("/products/filters", h.filterOptions)
	api.GET("/products/:handle", h.productByHandle)

	shopper := api.Group("", sessionMiddleware(deps.Sessions, deps.SecureCookies))
	shopper.GET("/cart", h.getCart)
	shopper.POST("/cart/lines", h.addLine)
	shopper.PATCH("/cart/lines/:lineId", h.updateLine)
	shopper.DELETE("/cart/lines/:lineId", h.removeLine)
	shopper.POST("/cart/refresh", h.refreshCart)
	shopper.DELETE("/cart", h.clearCart)
	shopper.GET("/notifications", h.notifications)

	router.GET("/ws/search", h.liveSearch)

	return router
}

// corsConfig allows every origin when none (or "*") is configured. Origins
// without an http(s) scheme are dropped.
func corsConfig(logger *zap.Logger, origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	var allowed []string
	for _, o := range origins {
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
			return cfg
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			allowed = append(allowed, strings.TrimRight(o, "/"))
		default:
			logger.Warn("ignoring cors origin without scheme", zap.String("origin", o))
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	cfg.AllowCredentials = true
	return cfg
}
