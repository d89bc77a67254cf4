package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tastebase/recipes-api/internal/database"
	"github.com/tastebase/recipes-api/internal/service"
)

const (
	defaultLimit   = 15
	maxListLimit   = 200
	minSearchLimit = 15
	maxSearchLimit = 50
)

// RecipeHandler serves the recipe catalog endpoints.
type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}
}

// ListRecipes returns one unfiltered page.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := queryInt(c, "page", 1, 1, 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", defaultLimit, 1, maxListLimit)
	if !ok {
		return
	}

	result, err := h.recipes.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchRecipes returns one page matching all supplied filters. A malformed
// numeric filter yields a 400 naming the field and the offending value.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	page, ok := queryInt(c, "page", 1, 1, 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", defaultLimit, minSearchLimit, maxSearchLimit)
	if !ok {
		return
	}

	params := service.SearchParams{
		Page:      page,
		Limit:     limit,
		Title:     c.Query("title"),
		Cuisine:   c.Query("cuisine"),
		Rating:    c.Query("rating"),
		TotalTime: c.Query("total_time"),
		Calories:  c.Query("calories"),
	}

	result, err := h.recipes.Search(c.Request.Context(), params)
	if err != nil {
		var fieldErr *service.FilterFieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fieldErr.Error(),
				"field": fieldErr.Field,
				"value": fieldErr.Raw,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRecipe returns a single recipe by id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Healthz reports liveness, pinging the database pool.
func Healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// queryInt parses a bounded integer query parameter. max <= 0 means no upper
// bound. On violation it writes the 400 response and returns ok=false.
func queryInt(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw := c.DefaultQuery(name, strconv.Itoa(def))
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max > 0 && v > max) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s parameter: %s", name, raw)})
		return 0, false
	}
	return v, true
}
