package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // DESKBOARD_DATABASE_URL (required)
	HTTPAddr    string // DESKBOARD_HTTP_ADDR (default ":8080")
	NATSURL     string // DESKBOARD_NATS_URL (optional, empty = no events)
	AuthToken   string // DESKBOARD_AUTH_TOKEN (optional, empty = auth disabled)

	// Reset job settings
	ResetJobEnabled  bool          // DESKBOARD_RESET_JOB (default off; "1"/"true" enables)
	ResetJobInterval time.Duration // DESKBOARD_RESET_JOB_INTERVAL (default 1m)

	// Sync settings
	SyncInterval   time.Duration // DESKBOARD_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // DESKBOARD_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // DESKBOARD_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // DESKBOARD_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // DESKBOARD_SYNC_S3_KEY (default "deskboard/backup.jsonl")
	SyncGitRepo    string        // DESKBOARD_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // DESKBOARD_SYNC_GIT_FILE (default "board.jsonl")
	SyncGitBranch  string        // DESKBOARD_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("DESKBOARD_DATABASE_URL"),
		HTTPAddr:       envOrDefault("DESKBOARD_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("DESKBOARD_NATS_URL"),
		AuthToken:      os.Getenv("DESKBOARD_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("DESKBOARD_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("DESKBOARD_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("DESKBOARD_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("DESKBOARD_SYNC_S3_KEY", "deskboard/backup.jsonl"),
		SyncGitRepo:    os.Getenv("DESKBOARD_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("DESKBOARD_SYNC_GIT_FILE", "board.jsonl"),
		SyncGitBranch:  envOrDefault("DESKBOARD_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("DESKBOARD_DATABASE_URL is required")
	}

	switch os.Getenv("DESKBOARD_RESET_JOB") {
	case "1", "true", "yes":
		c.ResetJobEnabled = true
	}

	resetIntervalStr := envOrDefault("DESKBOARD_RESET_JOB_INTERVAL", "1m")
	d, err := time.ParseDuration(resetIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("DESKBOARD_RESET_JOB_INTERVAL: %w", err)
	}
	c.ResetJobInterval = d

	intervalStr := envOrDefault("DESKBOARD_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("DESKBOARD_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
