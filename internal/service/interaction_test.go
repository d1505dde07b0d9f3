package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func newInteractionFixture(t *testing.T) (*service.InteractionService, *models.User, *models.Recipe) {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Borscht")
	user := testhelpers.CreateTestUser(t, db, "fan")

	return service.NewInteractionService(db), user, recipe
}

func TestFavoriteToggle(t *testing.T) {
	svc, user, recipe := newInteractionFixture(t)
	ctx := context.Background()

	short, err := svc.AddFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Borscht", short.Name)

	// Duplicate toggle-on is a client error, not a no-op.
	_, err = svc.AddFavorite(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	require.NoError(t, svc.RemoveFavorite(ctx, user.ID, recipe.ID))

	// So is toggle-off with nothing to remove.
	err = svc.RemoveFavorite(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNoSuchEntry)
}

func TestCartToggle(t *testing.T) {
	svc, user, recipe := newInteractionFixture(t)
	ctx := context.Background()

	short, err := svc.AddToCart(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)

	_, err = svc.AddToCart(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID))

	err = svc.RemoveFromCart(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNoSuchEntry)
}

func TestLedgersAreIndependent(t *testing.T) {
	svc, user, recipe := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	// Favoriting does not put anything in the cart.
	err = svc.RemoveFromCart(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNoSuchEntry)
}

func TestToggleMissingRecipe(t *testing.T) {
	svc, user, _ := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = svc.RemoveFromCart(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
