package main

import (
	"context"
	"log"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting and token revocation disabled: %v", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg.MediaBucket)
	if err != nil {
		log.Fatalf("Failed to configure media storage: %v", err)
	}
	if err := s3Config.SetupBucketPolicy(context.Background()); err != nil {
		log.Printf("Could not apply media bucket policy: %v", err)
	}
	imageService := service.NewImageService(service.NewS3ImageStore(s3Config))

	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(db, imageService)
	recipeService := service.NewRecipeService(db, imageService, userService)
	interactionService := service.NewInteractionService(db)
	shoppingListService := service.NewShoppingListService(db)
	catalogService := service.NewCatalogService(db)

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService),
		api.NewRecipeHandler(recipeService, interactionService, shoppingListService, authService, rateLimiter),
		api.NewTagHandler(catalogService),
		api.NewIngredientHandler(catalogService),
		cfg.AllowedOrigins,
	)

	srv := server.NewServer(engine)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
