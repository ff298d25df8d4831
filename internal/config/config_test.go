package config

import "testing"

func devConfig() *Config {
	return &Config{
		Port:         "8000",
		Env:          "development",
		DatabaseURL:  "postgres://localhost/clinic",
		SessionHours: 12,
		BlobDriver:   "fs",
		BlobDir:      "data/blobs",
	}
}

func TestValidate_DevWithoutSecret(t *testing.T) {
	cfg := devConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := devConfig()
	cfg.Env = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing SESSION_SECRET in production")
	}
	cfg.SessionSecret = "super-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_SessionHours(t *testing.T) {
	cfg := devConfig()
	cfg.SessionHours = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive SESSION_HOURS")
	}
}

func TestValidate_BlobDriver(t *testing.T) {
	cfg := devConfig()
	cfg.BlobDriver = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown blob driver")
	}

	cfg.BlobDriver = "s3"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for s3 driver without bucket")
	}
	cfg.BlobS3Bucket = "clinic-backups"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIsDev(t *testing.T) {
	cfg := devConfig()
	if !cfg.IsDev() {
		t.Error("expected IsDev true for ENV=development")
	}
	cfg.Env = "production"
	if cfg.IsDev() || !cfg.IsProduction() {
		t.Error("expected production mode")
	}
}
