package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the minimum acceptable length for the token
// signing secret. The process refuses to start below this threshold.
const MinJWTSecretLength = 32

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	Environment string

	// PortalRootPath is the canonical root of the folder tree; top-level
	// group folders live directly under it.
	PortalRootPath string
	// ArchiveRootPath is the page the archive generator creates
	// year/month folders under.
	ArchiveRootPath string
	// ArchiveCron is the schedule for automatic archive folder
	// generation. Production cadence is monthly; tighten for testing.
	ArchiveCron string

	// One-time bootstrap credentials consumed by the seeder. When unset,
	// a temporary credential is used and loudly logged.
	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminEmail    string

	MaxUploadBytes int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "go-pdx"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		PortalRootPath:  getEnv("PORTAL_ROOT_PATH", "/gosl-payroll"),
		ArchiveRootPath: getEnv("ARCHIVE_ROOT_PATH", "/payroll-archive"),
		ArchiveCron:     getEnv("ARCHIVE_CRON", "0 2 1 * *"),

		BootstrapAdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
	}

	// A weak signing secret is a fatal misconfiguration, not a warning.
	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("config: JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
