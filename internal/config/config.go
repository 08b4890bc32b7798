// Package config loads report settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
	"github.com/penwyp/go-counter-recovery/internal/presentation/interaction"
	"gopkg.in/yaml.v3"
)

// Config holds everything a report run can be configured with
type Config struct {
	// DataDir is the month directory holding one subdirectory per day
	DataDir string `yaml:"dir" envconfig:"COUNTER_DIR"`

	// Output is one of table, json or csv
	Output string `yaml:"output" envconfig:"COUNTER_OUTPUT"`

	// Sort orders the per-lab cost rows: lab, samples or total
	Sort       string `yaml:"sort" envconfig:"COUNTER_SORT"`
	Descending bool   `yaml:"descending" envconfig:"COUNTER_DESCENDING"`

	Rates pricing.Rates `yaml:"rates" ignored:"true"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		DataDir: ".",
		Output:  model.OutputTable,
		Sort:    "lab",
		Rates:   pricing.DefaultRates(),
	}
}

// Load starts from Default, applies the YAML file at path (if path is not
// empty) and then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Tags hold the full COUNTER_ keys; no prefix means no bare-name fallback
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := envconfig.Process("", &cfg.Rates); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the output format, the sort field and the rates
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory must not be empty")
	}
	switch c.Output {
	case model.OutputTable, model.OutputJSON, model.OutputCSV:
	default:
		return fmt.Errorf("unsupported output format %q (table, json, csv)", c.Output)
	}
	if _, err := interaction.ParseSortField(c.Sort); err != nil {
		return err
	}
	return c.Rates.Validate()
}

// SortOrder returns the order the per-lab rows are listed in
func (c *Config) SortOrder() (interaction.SortField, interaction.SortOrder) {
	field, _ := interaction.ParseSortField(c.Sort)
	if c.Descending {
		return field, interaction.SortDescending
	}
	return field, interaction.SortAscending
}
