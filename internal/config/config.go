package config

import (
	"fmt"
	"strings"
	"time"

	"gym_club_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port           string
	AppEnv         string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	JWTSecret      string
	JWTExpiration  time.Duration
	AllowedOrigins []string
	CatalogPath    string
	MigrationsPath string
	AutoMigrate    bool
	// CallbackSecret guards the payment gateway callback when set.
	CallbackSecret string
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file found, using process environment")
	}

	jwtSecret := utils.Getenv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttlHours := utils.GetenvInt("JWT_TTL_HOURS", 24)
	if ttlHours <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
	}

	return &Config{
		Port:           utils.Getenv("PORT", "8080"),
		AppEnv:         normalizeEnv(utils.Getenv("APP_ENV", "development")),
		DBHost:         utils.Getenv("DB_HOST", "localhost"),
		DBPort:         utils.Getenv("DB_PORT", "5432"),
		DBUser:         utils.Getenv("DB_USER", "gym_user"),
		DBPassword:     utils.Getenv("DB_PASSWORD", "gym_password"),
		DBName:         utils.Getenv("DB_NAME", "gym_club_db"),
		DBSSLMode:      utils.Getenv("DB_SSLMODE", "disable"),
		JWTSecret:      jwtSecret,
		JWTExpiration:  time.Duration(ttlHours) * time.Hour,
		AllowedOrigins: splitOrigins(utils.Getenv("CORS_ALLOWED_ORIGINS", "")),
		CatalogPath:    utils.Getenv("CATALOG_PATH", ""),
		MigrationsPath: utils.Getenv("MIGRATIONS_PATH", ""),
		AutoMigrate:    utils.GetenvBool("DB_AUTO_MIGRATE", false),
		CallbackSecret: utils.Getenv("PAYMENT_CALLBACK_SECRET", ""),
	}, nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL builds the postgres:// URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsDevelopment reports whether human-readable logging should be used.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"http://localhost:3000", "http://localhost:5173"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
