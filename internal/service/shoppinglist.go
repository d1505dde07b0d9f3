package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/types"
)

// ShoppingListService builds the aggregated shopping list for a user's
// cart.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build joins all recipes in the user's cart to their ingredient
// lines, sums amounts per (name, unit) and orders by name. An empty
// cart is reported as ErrEmptyCart rather than an empty list.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}

// Render produces the plain-text attachment body, one line per
// aggregated ingredient.
func (s *ShoppingListService) Render(items []types.ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s) — %d", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
