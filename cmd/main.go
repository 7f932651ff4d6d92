package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/admusproduccion/admus-server/cmd/api"
	"github.com/admusproduccion/admus-server/config"
	"github.com/admusproduccion/admus-server/db"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations(cfg)
			return
		case "clear-db":
			runDatabaseClear(cfg)
			return
		case "seed":
			runSeed(cfg)
			return
		case "serve":
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer(cfg)
}

func openDB(cfg *config.Config) (*gorm.DB, func()) {
	DB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	return DB, func() {
		sqlDB, err := DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		log.Println("Database connection closed")
	}
}

func runMigrations(cfg *config.Config) {
	DB, closeDB := openDB(cfg)
	defer closeDB()
	log.Println("Connected to the database for migrations")

	log.Println("Starting database migrations...")
	if err := db.Migrate(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	if err := createDirectoryIfNotExist(cfg.Uploads.Dir); err != nil {
		log.Fatalf("Error creating directory %s: %v", cfg.Uploads.Dir, err)
	}
	log.Printf("Directory %s created/verified", cfg.Uploads.Dir)
	log.Println("All migrations and directory setup completed successfully")
}

func createDirectoryIfNotExist(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", path, err)
		}
	}
	return nil
}

func runSeed(cfg *config.Config) {
	DB, closeDB := openDB(cfg)
	defer closeDB()

	if err := db.Migrate(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	if err := db.Seed(context.Background(), DB); err != nil {
		log.Fatalf("Seed error: %v", err)
	}
	log.Println("Demo data seeded successfully")
}

func startServer(cfg *config.Config) {
	DB, closeDB := openDB(cfg)
	defer closeDB()
	log.Println("Connected to the database")

	cache := db.NewRedisClient(cfg)
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewApiServer(cfg, DB, cache)
	if err := server.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return
	}
	log.Println("Server stopped")
}

func runDatabaseClear(cfg *config.Config) {
	DB, closeDB := openDB(cfg)
	defer closeDB()

	log.Println("Preparing to clear database...")

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	var tableNames string
	fmt.Print("Enter table names to clear (comma separated) or leave blank to clear all: ")
	fmt.Scanln(&tableNames)

	var names []string
	if tableNames != "" {
		names = strings.Split(tableNames, ",")
	}
	if err := db.DropTables(DB, names); err != nil {
		log.Fatalf("Error clearing database: %v", err)
	}
	log.Println("Database cleared successfully")
}
