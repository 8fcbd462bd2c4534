// Package config provides environment-driven configuration for the
// Model Armor client tooling.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Defaults used when the corresponding environment variables are unset.
const (
	DefaultLocation    = "us-central1"
	DefaultDLPEndpoint = "https://dlp.googleapis.com"
)

// Config holds everything needed to talk to the Model Armor and DLP APIs.
type Config struct {
	// ProjectID is the cloud project owning the templates. Required.
	ProjectID string

	// Location is the region templates live in and the sanitization
	// endpoint is addressed through.
	Location string

	// Endpoint overrides the regional Model Armor endpoint. Used to point
	// the facades at armormock.
	Endpoint string

	// DLPEndpoint overrides the DLP endpoint.
	DLPEndpoint string

	// APIKey is sent on every request when set.
	APIKey string

	// InspectTemplateID and DeidentifyTemplateID name pre-provisioned DLP
	// templates for advanced SDP configurations. Optional; fixtures create
	// their own when unset.
	InspectTemplateID    string
	DeidentifyTemplateID string
}

// Load reads configuration from a .env file (if present) and the
// environment. It fails if the project ID is missing.
func Load() (*Config, error) {
	// Optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:            os.Getenv("ARMOR_PROJECT_ID"),
		Location:             getEnv("ARMOR_LOCATION", DefaultLocation),
		Endpoint:             os.Getenv("ARMOR_ENDPOINT"),
		DLPEndpoint:          getEnv("ARMOR_DLP_ENDPOINT", DefaultDLPEndpoint),
		APIKey:               os.Getenv("ARMOR_API_KEY"),
		InspectTemplateID:    os.Getenv("ARMOR_INSPECT_TEMPLATE_ID"),
		DeidentifyTemplateID: os.Getenv("ARMOR_DEIDENTIFY_TEMPLATE_ID"),
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("ARMOR_PROJECT_ID is required")
	}

	return cfg, nil
}

// ServiceEndpoint returns the Model Armor endpoint to use: the explicit
// override when set, otherwise the regional endpoint
// https://modelarmor.{location}.rep.googleapis.com.
func (c *Config) ServiceEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://modelarmor.%s.rep.googleapis.com", c.Location)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
