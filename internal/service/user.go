package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService handles public profiles, avatars and the follow
// directory.
type UserService struct {
	db     *gorm.DB
	images *ImageService
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{
		db:     db,
		images: images,
	}
}

// Get retrieves a single public profile. IsSubscribed reflects viewer
// and is false for anonymous requests.
func (s *UserService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp, err := s.projectUser(ctx, &user, viewer)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns a paginated user listing ordered by registration time.
func (s *UserService) List(ctx context.Context, viewer *uuid.UUID, page Pagination) (*types.UserListResponse, error) {
	page = page.normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(page.offset()).Limit(page.Limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	results := make([]types.UserResponse, 0, len(users))
	for i := range users {
		resp, err := s.projectUser(ctx, &users[i], viewer)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}

	return &types.UserListResponse{Count: total, Results: results}, nil
}

// SetAvatar decodes and stores an inline avatar payload and persists
// the resulting URL on the user.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, payload string) (string, error) {
	url, err := s.images.DecodeAndStore(ctx, payload, "users/avatars")
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

// ClearAvatar removes the user's avatar reference.
func (s *UserService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", "").Error
}

// Subscribe creates a follow edge. Self-follow and duplicate edges are
// rejected; the composite unique index backstops concurrent duplicates.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		// Lost a race against an identical subscribe.
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return s.projectSubscription(ctx, &author, &userID, recipesLimit)
}

// Unsubscribe removes a follow edge; removing a missing edge is an
// error rather than a no-op.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchEntry
	}
	return nil
}

// Subscriptions lists the authors the user follows, each annotated
// with their recipes and recipe count. recipesLimit trims the per-author
// recipe list when positive.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page Pagination, recipesLimit int) (*types.SubscriptionListResponse, error) {
	page = page.normalize()

	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var authors []models.User
	if err := base.
		Order("subscriptions.created_at DESC").
		Offset(page.offset()).Limit(page.Limit).
		Find(&authors).Error; err != nil {
		return nil, err
	}

	results := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.projectSubscription(ctx, &authors[i], &userID, recipesLimit)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}

	return &types.SubscriptionListResponse{Count: total, Results: results}, nil
}

func (s *UserService) projectUser(ctx context.Context, user *models.User, viewer *uuid.UUID) (*types.UserResponse, error) {
	resp := &types.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.AvatarURL,
	}

	if viewer != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", *viewer, user.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		resp.IsSubscribed = count > 0
	}

	return resp, nil
}

func (s *UserService) projectSubscription(ctx context.Context, author *models.User, viewer *uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	profile, err := s.projectUser(ctx, author, viewer)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	short := make([]types.ShortRecipe, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, types.ShortRecipe{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return &types.SubscriptionResponse{
		UserResponse: *profile,
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
