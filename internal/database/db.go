package database

import (
	"log"
	"strings"

	"github.com/Baaaki/storefront/internal/config"
	"github.com/Baaaki/storefront/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open picks the dialect from the DSN: "sqlite://path" or "file:..." selects
// SQLite, anything else is handed to the Postgres driver.
func Open(dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// unique violations surface as gorm.ErrDuplicatedKey on every dialect
		TranslateError: true,
	}

	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), gormCfg)
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}
}

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.PasswordResetToken{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
	)
}

func Connect(cfg *config.Config) {
	var err error

	DB, err = Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connect successfully")
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
