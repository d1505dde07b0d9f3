package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/service"
)

// Loads the ingredient catalog from a CSV file of "name,measurement_unit"
// rows. Rows already present are skipped.
func main() {
	path := flag.String("file", "", "path to the ingredients CSV (defaults to INGREDIENTS_CSV)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	csvPath := *path
	if csvPath == "" {
		csvPath = cfg.IngredientsCSV
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", csvPath, err)
	}
	defer f.Close()

	created, err := service.NewCatalogService(db).ImportIngredients(context.Background(), f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Imported %d ingredients from %s", created, csvPath)
}
