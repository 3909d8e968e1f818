package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds the process settings read from the environment.
type Config struct {
	Port           string
	Env            string
	StorageBackend string
	DSN            string
	DBDriver       string
	UploadDir      string
	UseGCS         bool
	GCSBucket      string
	JWTSecret      string
	SeedData       bool
}

// Load reads .env (if present) and the environment.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil && log != nil {
		log.Info("No .env file found, using system environment variables")
	}

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		DSN:       os.Getenv("DB_DSN"),
		DBDriver:  getEnv("DB_DRIVER", "pgx"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		GCSBucket: os.Getenv("GCS_BUCKET"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		SeedData:  getEnv("SEED_DATA", "true") == "true",
	}

	// Cloud Run sets K_SERVICE
	cfg.UseGCS = os.Getenv("USE_GCS") == "true" ||
		(os.Getenv("K_SERVICE") != "" && cfg.GCSBucket != "")

	cfg.StorageBackend = strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	if cfg.StorageBackend == "" {
		if cfg.DSN != "" {
			cfg.StorageBackend = BackendPostgres
		} else {
			cfg.StorageBackend = BackendMemory
		}
	}

	return cfg
}

// Validate rejects combinations that cannot start.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires DB_DSN")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.DBDriver != "pgx" && c.DBDriver != "pq" {
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.UseGCS && c.GCSBucket == "" {
		return fmt.Errorf("USE_GCS=true requires GCS_BUCKET")
	}
	return nil
}

// Connect opens the database and runs migrations. DB_DRIVER=pq routes gorm
// through lib/pq instead of pgx.
func Connect(cfg Config) (*gorm.DB, error) {
	pgCfg := postgres.Config{DSN: cfg.DSN}
	if cfg.DBDriver == "pq" {
		pgCfg.DriverName = "postgres"
	}

	db, err := gorm.Open(postgres.New(pgCfg), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
