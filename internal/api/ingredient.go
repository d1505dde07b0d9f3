package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// IngredientHandler serves the public ingredient catalog.
type IngredientHandler struct {
	catalogService *service.CatalogService
}

// NewIngredientHandler creates a new IngredientHandler instance
func NewIngredientHandler(catalogService *service.CatalogService) *IngredientHandler {
	return &IngredientHandler{catalogService: catalogService}
}

// RegisterRoutes registers the ingredient routes
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

// ListIngredients returns the catalog, optionally narrowed to names
// starting with the ?name= prefix.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	items, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid ingredient id"})
		return
	}

	item, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
