package database

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations brings the schema up to date. The composite unique
// indexes declared on the models are the storage-layer backstop for
// every per-pair uniqueness rule (favorite, cart entry, follow edge,
// recipe ingredient), so concurrent duplicate toggles cannot both
// commit.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
}
