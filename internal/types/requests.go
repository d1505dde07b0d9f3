package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for token login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientLineInput is one (ingredient, amount) pair of a recipe
// write request.
type IngredientLineInput struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image carries the base64 payload, optionally prefixed with a
// data:image/...;base64, header.
type CreateRecipeRequest struct {
	Name        string                `json:"name" binding:"required"`
	Text        string                `json:"text" binding:"required"`
	Image       string                `json:"image" binding:"required"`
	CookingTime int                   `json:"cooking_time" binding:"required"`
	Tags        []uuid.UUID           `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Omitted scalar fields keep their prior value; Tags and Ingredients,
// when present, replace the prior association sets entirely.
type UpdateRecipeRequest struct {
	Name        *string               `json:"name"`
	Text        *string               `json:"text"`
	Image       *string               `json:"image"`
	CookingTime *int                  `json:"cooking_time"`
	Tags        []uuid.UUID           `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

// SetAvatarRequest represents the request body for the avatar upload
type SetAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}
