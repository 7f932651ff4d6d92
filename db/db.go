package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by the configured driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "", "postgres":
		return NewPSQLStorage(cfg)
	case "sqlite":
		return NewSQLiteStorage(cfg.Database.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// gormConfig keeps "record not found" out of the logs; lookups that expect a
// miss are part of normal flow.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func NewPSQLStorage(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

// NewSQLiteStorage is used for local development and tests.
func NewSQLiteStorage(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "admus.db"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Tables lists every model in migration order.
func Tables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Company{},
		&models.Influencer{},
		&models.Availability{},
		&models.Booking{},
		&models.Week{},
		&models.TaskType{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Package{},
		&models.CompanyLink{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Tables() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %T: %w", model, err)
		}
	}
	return nil
}

// NewRedisClient returns nil when no address is configured; callers treat a nil
// client as "cache disabled".
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Println("REDIS_ADDR not set, session cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Could not connect to Redis at %s: %v", cfg.Redis.Addr, err)
		rdb.Close()
		return nil
	}

	log.Println("Connected to Redis at", cfg.Redis.Addr)
	return rdb
}
