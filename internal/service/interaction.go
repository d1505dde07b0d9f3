package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// InteractionService owns the favorite and shopping-cart ledgers. The
// toggles are deliberately strict: adding an existing entry and
// removing a missing one are both client errors, so state-tracking
// bugs on the caller's side surface instead of being masked.
type InteractionService struct {
	db *gorm.DB
}

// NewInteractionService creates a new InteractionService instance
func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// AddFavorite records a favorite and returns the short recipe shape.
func (s *InteractionService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return s.add(ctx, userID, recipeID, func(userID, recipeID uuid.UUID) interface{} {
		return &models.Favorite{UserID: userID, RecipeID: recipeID}
	})
}

// RemoveFavorite deletes a favorite; a missing entry is an error.
func (s *InteractionService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.Favorite{})
}

// AddToCart records a shopping-cart entry and returns the short recipe
// shape.
func (s *InteractionService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return s.add(ctx, userID, recipeID, func(userID, recipeID uuid.UUID) interface{} {
		return &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	})
}

// RemoveFromCart deletes a cart entry; a missing entry is an error.
func (s *InteractionService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, userID, recipeID, &models.ShoppingCartItem{})
}

func (s *InteractionService) add(ctx context.Context, userID, recipeID uuid.UUID, row func(userID, recipeID uuid.UUID) interface{}) (*types.ShortRecipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(row(userID, recipeID)).Error; err != nil {
		// The composite unique index decides races between identical
		// toggles: exactly one insert commits.
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &types.ShortRecipe{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *InteractionService) remove(ctx context.Context, userID, recipeID uuid.UUID, model interface{}) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchEntry
	}
	return nil
}

func (s *InteractionService) getRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
