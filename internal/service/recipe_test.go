package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

type recipeFixture struct {
	db     *gorm.DB
	svc    *service.RecipeService
	author *models.User
	tag    *models.Tag
	salt   *models.Ingredient
	sugar  *models.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	images := service.NewImageService(testhelpers.NewMemoryImageStore())
	users := service.NewUserService(db, images)

	return &recipeFixture{
		db:     db,
		svc:    service.NewRecipeService(db, images, users),
		author: testhelpers.CreateTestUser(t, db, "author"),
		tag:    testhelpers.CreateTestTag(t, db, "dinner"),
		salt:   testhelpers.CreateTestIngredient(t, db, "salt", "g"),
		sugar:  testhelpers.CreateTestIngredient(t, db, "sugar", "g"),
	}
}

func (f *recipeFixture) createRequest() *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name:        "Borscht",
		Text:        "Chop, simmer, serve.",
		Image:       testhelpers.DataURLPNG,
		CookingTime: 45,
		Tags:        []uuid.UUID{f.tag.ID},
		Ingredients: []types.IngredientLineInput{
			{ID: f.salt.ID, Amount: 5},
			{ID: f.sugar.ID, Amount: 10},
		},
	}
}

func (f *recipeFixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "Borscht", resp.Name)
	assert.Equal(t, 45, resp.CookingTime)
	assert.Equal(t, f.author.Username, resp.Author.Username)
	assert.NotEmpty(t, resp.Image)
	assert.False(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)

	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "dinner", resp.Tags[0].Slug)

	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, int64(2), f.count(t, &models.RecipeIngredient{}))
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*types.CreateRecipeRequest)
		field  string
	}{
		{"zero cooking time", func(r *types.CreateRecipeRequest) { r.CookingTime = 0 }, "cooking_time"},
		{"no tags", func(r *types.CreateRecipeRequest) { r.Tags = nil }, "tags"},
		{"repeated tags", func(r *types.CreateRecipeRequest) {
			r.Tags = []uuid.UUID{f.tag.ID, f.tag.ID}
		}, "tags"},
		{"unknown tag", func(r *types.CreateRecipeRequest) {
			r.Tags = []uuid.UUID{uuid.New()}
		}, "tags"},
		{"no ingredients", func(r *types.CreateRecipeRequest) { r.Ingredients = nil }, "ingredients"},
		{"repeated ingredients", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientLineInput{
				{ID: f.salt.ID, Amount: 1},
				{ID: f.salt.ID, Amount: 2},
			}
		}, "ingredients"},
		{"unknown ingredient", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientLineInput{{ID: uuid.New(), Amount: 1}}
		}, "ingredients"},
		{"zero amount", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientLineInput{{ID: f.salt.ID, Amount: 0}}
		}, "amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.createRequest()
			tc.mutate(req)

			_, err := f.svc.Create(ctx, f.author.ID, req)
			require.Error(t, err)

			var validationErr *service.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}

	// No rejected request may leave rows behind.
	assert.Equal(t, int64(0), f.count(t, &models.Recipe{}))
	assert.Equal(t, int64(0), f.count(t, &models.RecipeIngredient{}))
}

func TestCreateRecipeBadImage(t *testing.T) {
	f := newRecipeFixture(t)

	req := f.createRequest()
	req.Image = "definitely not base64 !!!"

	_, err := f.svc.Create(context.Background(), f.author.ID, req)
	require.ErrorIs(t, err, service.ErrImageDecode)
	assert.Equal(t, int64(0), f.count(t, &models.Recipe{}))
}

func TestUpdateRecipePartial(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	name := "Green Borscht"
	resp, err := f.svc.Update(ctx, created.ID, f.author.ID, &types.UpdateRecipeRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Green Borscht", resp.Name)
	// Untouched fields and associations survive.
	assert.Equal(t, created.Text, resp.Text)
	assert.Equal(t, created.CookingTime, resp.CookingTime)
	assert.Len(t, resp.Ingredients, 2)
	assert.Len(t, resp.Tags, 1)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	resp, err := f.svc.Update(ctx, created.ID, f.author.ID, &types.UpdateRecipeRequest{
		Ingredients: []types.IngredientLineInput{{ID: f.sugar.ID, Amount: 3}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "sugar", resp.Ingredients[0].Name)
	assert.Equal(t, 3, resp.Ingredients[0].Amount)
	assert.Equal(t, int64(1), f.count(t, &models.RecipeIngredient{}))
}

func TestUpdateRecipeForbidden(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	stranger := testhelpers.CreateTestUser(t, f.db, "stranger")
	name := "Stolen"

	_, err = f.svc.Update(ctx, created.ID, stranger.ID, &types.UpdateRecipeRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	f := newRecipeFixture(t)

	name := "Ghost"
	_, err := f.svc.Update(context.Background(), uuid.New(), f.author.ID, &types.UpdateRecipeRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	interactions := service.NewInteractionService(f.db)
	fan := testhelpers.CreateTestUser(t, f.db, "fan")
	_, err = interactions.AddFavorite(ctx, fan.ID, created.ID)
	require.NoError(t, err)
	_, err = interactions.AddToCart(ctx, fan.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID, f.author.ID))

	assert.Equal(t, int64(0), f.count(t, &models.Recipe{}))
	assert.Equal(t, int64(0), f.count(t, &models.RecipeIngredient{}))
	assert.Equal(t, int64(0), f.count(t, &models.Favorite{}))
	assert.Equal(t, int64(0), f.count(t, &models.ShoppingCartItem{}))
}

func TestDeleteRecipeForbidden(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	stranger := testhelpers.CreateTestUser(t, f.db, "stranger")
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID, stranger.ID), service.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New(), f.author.ID), service.ErrNotFound)
}

func TestGetRecipeViewerBooleans(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	fan := testhelpers.CreateTestUser(t, f.db, "fan")
	interactions := service.NewInteractionService(f.db)
	_, err = interactions.AddFavorite(ctx, fan.ID, created.ID)
	require.NoError(t, err)

	asFan, err := f.svc.Get(ctx, created.ID, &fan.ID)
	require.NoError(t, err)
	assert.True(t, asFan.IsFavorited)
	assert.False(t, asFan.IsInShoppingCart)

	// Anonymous viewers always see false.
	anon, err := f.svc.Get(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.IsInShoppingCart)
}

func TestListRecipesFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	breakfast := testhelpers.CreateTestTag(t, f.db, "breakfast")

	first, err := f.svc.Create(ctx, f.author.ID, f.createRequest())
	require.NoError(t, err)

	req := f.createRequest()
	req.Name = "Pancakes"
	req.Tags = []uuid.UUID{breakfast.ID}
	_, err = f.svc.Create(ctx, f.author.ID, req)
	require.NoError(t, err)

	other := testhelpers.CreateTestUser(t, f.db, "other")
	req = f.createRequest()
	req.Name = "Okroshka"
	_, err = f.svc.Create(ctx, other.ID, req)
	require.NoError(t, err)

	t.Run("by tag slug", func(t *testing.T) {
		resp, err := f.svc.List(ctx, service.RecipeFilter{TagSlugs: []string{"breakfast"}}, nil, service.Pagination{})
		require.NoError(t, err)
		require.Equal(t, int64(1), resp.Count)
		assert.Equal(t, "Pancakes", resp.Results[0].Name)
	})

	t.Run("by author", func(t *testing.T) {
		resp, err := f.svc.List(ctx, service.RecipeFilter{Author: &f.author.ID}, nil, service.Pagination{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Count)
	})

	t.Run("favorited for a viewer", func(t *testing.T) {
		fan := testhelpers.CreateTestUser(t, f.db, "fan")
		_, err := service.NewInteractionService(f.db).AddFavorite(ctx, fan.ID, first.ID)
		require.NoError(t, err)

		resp, err := f.svc.List(ctx, service.RecipeFilter{Favorited: true}, &fan.ID, service.Pagination{})
		require.NoError(t, err)
		require.Equal(t, int64(1), resp.Count)
		assert.Equal(t, first.ID, resp.Results[0].ID)
		assert.True(t, resp.Results[0].IsFavorited)
	})

	t.Run("favorited filter ignored for anonymous", func(t *testing.T) {
		resp, err := f.svc.List(ctx, service.RecipeFilter{Favorited: true}, nil, service.Pagination{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Count)
	})

	t.Run("pagination window", func(t *testing.T) {
		resp, err := f.svc.List(ctx, service.RecipeFilter{}, nil, service.Pagination{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Count)
		assert.Len(t, resp.Results, 1)
	})
}
