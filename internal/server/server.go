package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/api"
	"github.com/tastebase/recipes-api/internal/middleware"
	"github.com/tastebase/recipes-api/internal/router"
	"github.com/tastebase/recipes-api/internal/service"
)

// Server ties the HTTP engine to its dependencies.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New wires the recipe service and routes. limiter may be nil.
func New(port string, db *gorm.DB, limiter *middleware.RateLimiter) *Server {
	recipes := service.NewRecipeService(db)
	handler := api.NewRecipeHandler(recipes)
	engine := router.SetupRouter(db, handler, limiter)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:    ":" + port,
			Handler: engine,
		},
	}
}

// Start serves HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
