package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://api.wandb.ai"

type Config struct {
	APIKey  string
	BaseURL string
	Entity  string
	Project string
	Timeout time.Duration
}

func New() *Config {
	return &Config{
		APIKey:  viper.GetString("api_key"),
		BaseURL: viper.GetString("base_url"),
		Entity:  viper.GetString("entity"),
		Project: viper.GetString("project"),
		Timeout: viper.GetDuration("timeout"),
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("WANDB_API_KEY is not set. Run 'wandb login' or get a key " +
			"from https://wandb.ai/authorize and 'export WANDB_API_KEY=<key>'")
	}

	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	if c.Entity == "" {
		return fmt.Errorf("entity is required. Set WANDB_ENTITY or pass --entity")
	}

	return nil
}

// ResolveProject picks the explicit project argument over the configured
// default. An empty result is an error: every run-level operation needs a
// project to address entity/project/run_id.
func (c *Config) ResolveProject(project string) (string, error) {
	resolved := project
	if resolved == "" {
		resolved = c.Project
	}
	if resolved == "" {
		return "", fmt.Errorf("no project specified. Pass --project or set WANDB_PROJECT")
	}
	return resolved, nil
}

// AppURL returns the web UI base corresponding to the API base. The hosted
// service serves the API from the "api." subdomain of the UI host.
func (c *Config) AppURL() string {
	return strings.Replace(c.BaseURL, "https://api.", "https://", 1)
}
