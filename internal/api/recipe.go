package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// RecipeHandler serves recipe CRUD, the favorite/cart toggles and the
// shopping-list download.
type RecipeHandler struct {
	recipeService       *service.RecipeService
	interactionService  *service.InteractionService
	shoppingListService *service.ShoppingListService
	authService         *service.AuthService
	rateLimiter         *middleware.RateLimiter
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(
	recipeService *service.RecipeService,
	interactionService *service.InteractionService,
	shoppingListService *service.ShoppingListService,
	authService *service.AuthService,
	rateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		interactionService:  interactionService,
		shoppingListService: shoppingListService,
		authService:         authService,
		rateLimiter:         rateLimiter,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")

	create := []gin.HandlerFunc{middleware.AuthMiddleware(h.authService)}
	if h.rateLimiter != nil {
		create = append(create, h.rateLimiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.authService), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.authService), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.authService), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.RemoveFromCart)
	}
}

// ListRecipes returns a filtered, paginated recipe listing.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := optionalViewer(c)

	var filter service.RecipeFilter
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid author id"})
			return
		}
		filter.Author = &id
	}
	filter.TagSlugs = c.QueryArray("tags")
	filter.Favorited = c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true"
	filter.InCart = c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true"

	resp, err := h.recipeService.List(c.Request.Context(), filter, viewer, paginationFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecipe returns the full projection of one recipe.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	resp, err := h.recipeService.Get(c.Request.Context(), id, optionalViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateRecipe creates a recipe owned by the authenticated user.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateRecipe applies a partial update to an owned recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := h.recipeService.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteRecipe removes an owned recipe and everything referencing it.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Favorite adds the recipe to the user's favorites.
func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.toggleOn(c, h.interactionService.AddFavorite)
}

// Unfavorite removes the recipe from the user's favorites.
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.toggleOff(c, h.interactionService.RemoveFavorite)
}

// AddToCart adds the recipe to the user's shopping cart.
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggleOn(c, h.interactionService.AddToCart)
}

// RemoveFromCart removes the recipe from the user's shopping cart.
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggleOff(c, h.interactionService.RemoveFromCart)
}

// DownloadShoppingCart renders the aggregated shopping list as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	items, err := h.shoppingListService.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping-list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.shoppingListService.Render(items)))
}

func (h *RecipeHandler) toggleOn(c *gin.Context, toggle func(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error)) {
	userID, _ := middleware.CurrentUserID(c)

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	resp, err := toggle(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) toggleOff(c *gin.Context, toggle func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, _ := middleware.CurrentUserID(c)

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	if err := toggle(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
