package types

import (
	"time"

	"github.com/google/uuid"
)

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// IngredientResponse represents a catalog ingredient in API responses
type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// IngredientLineResponse is one recipe ingredient line joined with its
// catalog entry.
type IngredientLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full read projection of a recipe. It is the
// response shape of both read and write endpoints.
type RecipeResponse struct {
	ID               uuid.UUID                `json:"id"`
	Author           UserResponse             `json:"author"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	Tags             []TagResponse            `json:"tags"`
	CookingTime      int                      `json:"cooking_time"`
	CreatedAt        time.Time                `json:"created_at"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
}

// ShortRecipe is the compact recipe shape used by toggle responses and
// subscription listings.
type ShortRecipe struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// RecipeListResponse wraps a paginated recipe listing
type RecipeListResponse struct {
	Count   int64            `json:"count"`
	Results []RecipeResponse `json:"results"`
}

// ShoppingListItem is one aggregated row of a user's shopping list
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}
