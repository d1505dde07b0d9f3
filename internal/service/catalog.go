package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// CatalogService serves the tag and ingredient reference catalogs.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagResponse, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	results := make([]types.TagResponse, 0, len(tags))
	for _, t := range tags {
		results = append(results, types.TagResponse{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}
	return results, nil
}

// GetTag retrieves a single tag by ID.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.TagResponse, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &types.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}, nil
}

// ListIngredients returns catalog ingredients ordered by name,
// optionally narrowed to a case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{}).Order("name ASC")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", namePrefix+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}

	results := make([]types.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		results = append(results, types.IngredientResponse{
			ID:              ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
		})
	}
	return results, nil
}

// GetIngredient retrieves a single catalog ingredient by ID.
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientResponse, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &types.IngredientResponse{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}, nil
}

// ImportIngredients upserts (name, measurement unit) rows from a CSV
// stream and reports how many were created. Existing pairs are left
// untouched.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	created := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, fmt.Errorf("failed to read CSV record: %w", err)
		}

		name, unit := record[0], record[1]

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", name, unit).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		ing := models.Ingredient{Name: name, MeasurementUnit: unit}
		if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}

// CreateTag inserts a tag. Tags are reference data managed out of band
// of the public API.
func (s *CatalogService) CreateTag(ctx context.Context, name, color, slug string) (*types.TagResponse, error) {
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &types.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}, nil
}
