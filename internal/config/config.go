// Package config loads the batch runner configuration from an HCL file,
// with environment overrides applied by the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete batch runner configuration
type Config struct {
	Store StoreSettings `hcl:"store,block"`
	Batch BatchSettings `hcl:"batch,block"`
}

// StoreSettings configures the hand document store
type StoreSettings struct {
	Path string `hcl:"path,optional"`
}

// BatchSettings configures the batch driver
type BatchSettings struct {
	Workers           int    `hcl:"workers,optional"`
	HandBudgetSeconds int    `hcl:"hand_budget_seconds,optional"`
	LogLevel          string `hcl:"log_level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Store: StoreSettings{
			Path: "handsight.db",
		},
		Batch: BatchSettings{
			Workers:           1,
			HandBudgetSeconds: 30,
			LogLevel:          "info",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Store.Path == "" {
		config.Store.Path = "handsight.db"
	}
	if config.Batch.Workers == 0 {
		config.Batch.Workers = 1
	}
	if config.Batch.HandBudgetSeconds == 0 {
		config.Batch.HandBudgetSeconds = 30
	}
	if config.Batch.LogLevel == "" {
		config.Batch.LogLevel = "info"
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path must be set")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Batch.HandBudgetSeconds < 1 {
		return fmt.Errorf("hand budget must be at least 1 second, got %d", c.Batch.HandBudgetSeconds)
	}
	switch c.Batch.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Batch.LogLevel)
	}
	return nil
}

// HandBudget returns the per-hand wall-clock budget as a duration.
func (c *Config) HandBudget() time.Duration {
	return time.Duration(c.Batch.HandBudgetSeconds) * time.Second
}
