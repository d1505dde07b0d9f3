package types

import (
	"github.com/google/uuid"
)

// UserResponse is the public profile shape. IsSubscribed reflects the
// viewing user and is false for anonymous requests.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// SubscriptionResponse is an author profile annotated with their
// recipes for the subscriptions listing.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// UserListResponse wraps a paginated user listing
type UserListResponse struct {
	Count   int64          `json:"count"`
	Results []UserResponse `json:"results"`
}

// SubscriptionListResponse wraps the paginated subscriptions listing
type SubscriptionListResponse struct {
	Count   int64                  `json:"count"`
	Results []SubscriptionResponse `json:"results"`
}
