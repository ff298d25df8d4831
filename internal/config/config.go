package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	DatabaseURL   string   `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32    `mapstructure:"DB_MIN_CONNS"`
	SessionSecret string   `mapstructure:"SESSION_SECRET"`
	SessionHours  int      `mapstructure:"SESSION_HOURS"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	MigrationsDir string   `mapstructure:"MIGRATIONS_DIR"`

	// Blobstore (backups and archived reports)
	BlobDriver     string `mapstructure:"BLOB_DRIVER"` // fs | s3
	BlobDir        string `mapstructure:"BLOB_DIR"`
	BlobS3Bucket   string `mapstructure:"BLOB_S3_BUCKET"`
	BlobS3Region   string `mapstructure:"BLOB_S3_REGION"`
	BlobS3Endpoint string `mapstructure:"BLOB_S3_ENDPOINT"`

	// Report letterhead
	ClinicName    string `mapstructure:"CLINIC_NAME"`
	ClinicTagline string `mapstructure:"CLINIC_TAGLINE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SESSION_HOURS", 12)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("BLOB_DRIVER", "fs")
	v.SetDefault("BLOB_DIR", "data/blobs")
	v.SetDefault("BLOB_S3_REGION", "us-east-1")
	v.SetDefault("CLINIC_NAME", "DR.Khan Clinic")
	v.SetDefault("CLINIC_TAGLINE", "General Physician | Contact: +92 304 7501095")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("SESSION_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("BLOB_DRIVER")
	v.BindEnv("BLOB_DIR")
	v.BindEnv("BLOB_S3_BUCKET")
	v.BindEnv("BLOB_S3_REGION")
	v.BindEnv("BLOB_S3_ENDPOINT")
	v.BindEnv("CLINIC_NAME")
	v.BindEnv("CLINIC_TAGLINE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a SESSION_SECRET must be configured so session tokens cannot be forged,
// and the blob driver must be one the server knows how to open.
func (c *Config) Validate() error {
	if !c.IsDev() && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required when ENV=%q", c.Env)
	}
	if c.SessionHours <= 0 {
		return fmt.Errorf("SESSION_HOURS must be positive, got %d", c.SessionHours)
	}
	switch c.BlobDriver {
	case "fs":
		if c.BlobDir == "" {
			return fmt.Errorf("BLOB_DIR is required when BLOB_DRIVER is \"fs\"")
		}
	case "s3":
		if c.BlobS3Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET is required when BLOB_DRIVER is \"s3\"")
		}
	default:
		return fmt.Errorf("BLOB_DRIVER must be \"fs\" or \"s3\", got %q", c.BlobDriver)
	}
	return nil
}
