package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// MemoryImageStore keeps stored blobs in memory and hands back fake URLs.
type MemoryImageStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryImageStore creates an empty in-memory image store
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{blobs: make(map[string][]byte)}
}

func (s *MemoryImageStore) Save(_ context.Context, data []byte, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "http://media.test/" + key, nil
}

// Len returns the number of stored blobs
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// CreateTestUser inserts a user with a unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB, suffix string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("user-%s@example.com", suffix),
		Username:     "user-" + suffix,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestTag inserts a tag derived from the given slug.
func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		Name:  slug,
		Color: "#" + uuid.New().String()[:6],
		Slug:  slug,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateTestIngredient inserts an ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{
		Name:            name,
		MeasurementUnit: unit,
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateTestRecipe inserts a recipe with one tag and one ingredient line.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()

	tag := CreateTestTag(t, db, "tag-"+uuid.New().String()[:8])
	ingredient := CreateTestIngredient(t, db, "ingredient-"+uuid.New().String()[:8], "g")

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Test recipe text",
		ImageURL:    "http://media.test/recipes/test.jpg",
		CookingTime: 15,
		Tags:        []models.Tag{*tag},
	}
	require.NoError(t, db.Create(recipe).Error)

	line := &models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: ingredient.ID,
		Amount:       100,
	}
	require.NoError(t, db.Create(line).Error)

	return recipe
}

// PNGBase64 is a 1x1 transparent PNG, the smallest useful image payload.
const PNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// DataURLPNG is PNGBase64 wrapped in a data URL header.
const DataURLPNG = "data:image/png;base64," + PNGBase64
