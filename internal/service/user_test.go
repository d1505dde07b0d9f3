package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func newUserService(t *testing.T) (*service.UserService, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	images := service.NewImageService(testhelpers.NewMemoryImageStore())
	return service.NewUserService(db, images), db
}

func TestUserGet(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "a")

	got, err := svc.Get(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)
	assert.False(t, got.IsSubscribed)

	_, err = svc.Get(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	author := testhelpers.CreateTestUser(t, db, "author")
	testhelpers.CreateTestRecipe(t, db, author, "Borscht")

	resp, err := svc.Subscribe(ctx, follower.ID, author.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, author.Username, resp.Username)
	assert.True(t, resp.IsSubscribed)
	assert.Equal(t, int64(1), resp.RecipesCount)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Borscht", resp.Recipes[0].Name)
}

func TestSubscribeToSelf(t *testing.T) {
	svc, db := newUserService(t)

	user := testhelpers.CreateTestUser(t, db, "a")

	_, err := svc.Subscribe(context.Background(), user.ID, user.ID, 0)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)
}

func TestSubscribeTwice(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	author := testhelpers.CreateTestUser(t, db, "author")

	_, err := svc.Subscribe(ctx, follower.ID, author.ID, 0)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, follower.ID, author.ID, 0)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestSubscribeToMissingAuthor(t *testing.T) {
	svc, db := newUserService(t)

	follower := testhelpers.CreateTestUser(t, db, "follower")

	_, err := svc.Subscribe(context.Background(), follower.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	author := testhelpers.CreateTestUser(t, db, "author")

	_, err := svc.Subscribe(ctx, follower.ID, author.ID, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))

	// A second removal has no edge left to delete.
	err = svc.Unsubscribe(ctx, follower.ID, author.ID)
	assert.ErrorIs(t, err, service.ErrNoSuchEntry)

	// A missing author is a different failure than a missing edge.
	err = svc.Unsubscribe(ctx, follower.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscriptions(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db, "follower")
	first := testhelpers.CreateTestUser(t, db, "first")
	second := testhelpers.CreateTestUser(t, db, "second")

	for i := 0; i < 3; i++ {
		testhelpers.CreateTestRecipe(t, db, second, "Recipe "+string(rune('A'+i)))
	}

	_, err := svc.Subscribe(ctx, follower.ID, first.ID, 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, follower.ID, second.ID, 0)
	require.NoError(t, err)

	resp, err := svc.Subscriptions(ctx, follower.ID, service.Pagination{}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Count)
	require.Len(t, resp.Results, 2)
	for _, sub := range resp.Results {
		assert.True(t, sub.IsSubscribed)
	}

	limited, err := svc.Subscriptions(ctx, follower.ID, service.Pagination{}, 1)
	require.NoError(t, err)
	for _, sub := range limited.Results {
		assert.LessOrEqual(t, len(sub.Recipes), 1)
	}
}

func TestListUsersPagination(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	for _, suffix := range []string{"a", "b", "c"} {
		testhelpers.CreateTestUser(t, db, suffix)
	}

	resp, err := svc.List(ctx, nil, service.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Count)
	assert.Len(t, resp.Results, 2)

	rest, err := svc.List(ctx, nil, service.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Results, 1)
}

func TestAvatarLifecycle(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "a")

	url, err := svc.SetAvatar(ctx, user.ID, testhelpers.DataURLPNG)
	require.NoError(t, err)
	assert.Contains(t, url, "users/avatars/")

	got, err := svc.Get(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, url, got.Avatar)

	require.NoError(t, svc.ClearAvatar(ctx, user.ID))

	got, err = svc.Get(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Avatar)
}

func TestSetAvatarBadPayload(t *testing.T) {
	svc, db := newUserService(t)

	user := testhelpers.CreateTestUser(t, db, "a")

	_, err := svc.SetAvatar(context.Background(), user.ID, "!!!")
	assert.ErrorIs(t, err, service.ErrImageDecode)
}
