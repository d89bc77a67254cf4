package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/api"
	"github.com/tastebase/recipes-api/internal/middleware"
)

// SetupRouter configures the application routes. limiter may be nil when
// Redis is not configured; the API then runs unthrottled.
func SetupRouter(db *gorm.DB, recipeHandler *api.RecipeHandler, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	router.GET("/healthz", api.Healthz(db))

	apiGroup := router.Group("/api")
	if limiter != nil {
		apiGroup.Use(limiter.Middleware())
	}
	recipeHandler.RegisterRoutes(apiGroup)

	return router
}
