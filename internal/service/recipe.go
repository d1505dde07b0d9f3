package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeService owns the recipe aggregate: the transactional write
// path, the read projection and filtered listings.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	users  *UserService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService, users *UserService) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		users:  users,
	}
}

// RecipeFilter narrows recipe listings. Favorited and InCart only
// apply for authenticated viewers.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
}

// Create validates and persists a new recipe. The recipe row, its tag
// set and its ingredient lines commit in one transaction; the response
// is the same projection served by read endpoints.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if req.CookingTime < 1 {
		return nil, newValidationError("cooking_time", "must be at least 1")
	}
	if err := validateTagIDs(req.Tags); err != nil {
		return nil, err
	}
	if err := validateIngredientLines(req.Ingredients); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	// The blob store is written before the transaction; an undecodable
	// payload fails the request before any row exists.
	imageURL, err := s.images.DecodeAndStore(ctx, req.Image, "recipes/images")
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return replaceIngredientLines(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update applies a partial update. Only the author may edit; tags and
// ingredients, when present in the request, replace the prior sets
// entirely within the same transaction as the field updates.
func (s *RecipeService) Update(ctx context.Context, recipeID, editorID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != editorID {
		return nil, ErrForbidden
	}

	if req.CookingTime != nil && *req.CookingTime < 1 {
		return nil, newValidationError("cooking_time", "must be at least 1")
	}
	if req.Tags != nil {
		if err := validateTagIDs(req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := validateIngredientLines(req.Ingredients); err != nil {
			return nil, err
		}
	}

	var tags []models.Tag
	if req.Tags != nil {
		var err error
		tags, err = s.resolveTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := s.checkIngredientsExist(ctx, req.Ingredients); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if req.Image != nil {
		imageURL, err := s.images.DecodeAndStore(ctx, *req.Image, "recipes/images")
		if err != nil {
			return nil, err
		}
		recipe.ImageURL = imageURL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			return replaceIngredientLines(tx, recipe.ID, req.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &editorID)
}

// Delete removes a recipe with its ingredient lines and all ledger
// rows referencing it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != actorID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// Get returns the full read projection of one recipe.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("Author").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.project(ctx, &recipe, viewer)
}

// List returns a filtered, paginated recipe listing ordered
// newest-first.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, viewer *uuid.UUID, page Pagination) (*types.RecipeListResponse, error) {
	page = page.normalize()

	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	// Ledger filters only make sense for a signed-in viewer.
	if viewer != nil {
		if filter.Favorited {
			favorited := s.db.Model(&models.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", *viewer)
			query = query.Where("recipes.id IN (?)", favorited)
		}
		if filter.InCart {
			inCart := s.db.Model(&models.ShoppingCartItem{}).
				Select("recipe_id").
				Where("user_id = ?", *viewer)
			query = query.Where("recipes.id IN (?)", inCart)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := query.
		Preload("Author").
		Order("recipes.created_at DESC").
		Offset(page.offset()).Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	results := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.project(ctx, &recipes[i], viewer)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}

	return &types.RecipeListResponse{Count: total, Results: results}, nil
}

// project builds the read projection for one recipe. It runs after
// every successful write as well as on reads and never consults a
// request-scoped cache.
func (s *RecipeService) project(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (*types.RecipeResponse, error) {
	if recipe.Author == nil {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", recipe.AuthorID).Error; err != nil {
			return nil, err
		}
		recipe.Author = &author
	}

	authorResp, err := s.users.projectUser(ctx, recipe.Author, viewer)
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Model(recipe).Association("Tags").Find(&tags); err != nil {
		return nil, err
	}
	tagResponses := make([]types.TagResponse, 0, len(tags))
	for _, t := range tags {
		tagResponses = append(tagResponses, types.TagResponse{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	var lines []models.RecipeIngredient
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipe.ID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	lineResponses := make([]types.IngredientLineResponse, 0, len(lines))
	for _, l := range lines {
		lineResponses = append(lineResponses, types.IngredientLineResponse{
			ID:              l.IngredientID,
			Name:            l.Ingredient.Name,
			MeasurementUnit: l.Ingredient.MeasurementUnit,
			Amount:          l.Amount,
		})
	}

	resp := &types.RecipeResponse{
		ID:          recipe.ID,
		Author:      *authorResp,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		Ingredients: lineResponses,
		Tags:        tagResponses,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
	}

	if viewer != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		resp.IsFavorited = count > 0

		if err := s.db.WithContext(ctx).Model(&models.ShoppingCartItem{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		resp.IsInShoppingCart = count > 0
	}

	return resp, nil
}

func validateTagIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return newValidationError("tags", "at least one tag is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return newValidationError("tags", "tags must not repeat")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateIngredientLines(lines []types.IngredientLineInput) error {
	if len(lines) == 0 {
		return newValidationError("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ID]; ok {
			return newValidationError("ingredients", "ingredients must not repeat")
		}
		seen[line.ID] = struct{}{}
		if line.Amount < 1 {
			return newValidationError("amount", "must be at least 1")
		}
	}
	return nil
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, newValidationError("tags", "unknown tag")
	}
	return tags, nil
}

func (s *RecipeService) checkIngredientsExist(ctx context.Context, lines []types.IngredientLineInput) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return newValidationError("ingredients", "unknown ingredient")
	}
	return nil
}

// replaceIngredientLines deletes all prior lines for the recipe and
// inserts the new set. Callers run it inside the same transaction as
// the rest of the write.
func replaceIngredientLines(tx *gorm.DB, recipeID uuid.UUID, lines []types.IngredientLineInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return tx.Create(&rows).Error
}
