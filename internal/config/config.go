// Package config loads the resource-class table, sampling, and SLO
// defaults the planner runs with.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/swarmguard/admission-planner/dagmodel"
)

// Config holds all configuration the planner needs to run.
type Config struct {
	Classes  []ResourceClassEntry `mapstructure:"classes"`
	Sampling SamplingConfig       `mapstructure:"sampling"`
	Log      LogConfig            `mapstructure:"log"`
}

// ResourceClassEntry mirrors dagmodel.ResourceClass in a mapstructure-
// friendly shape.
type ResourceClassEntry struct {
	Name       string `mapstructure:"name"`
	UnitCost   int    `mapstructure:"unit_cost"`
	NodeMemory int    `mapstructure:"node_memory"`
}

// SamplingConfig holds the default sample size and SLO ceilings applied
// when a caller does not override them per-request.
type SamplingConfig struct {
	MaxSampleSize  int `mapstructure:"max_sample_size"`
	DefaultCostSLO int `mapstructure:"default_cost_slo"`
	DefaultTimeSLO int `mapstructure:"default_time_slo"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads configuration from configPath, or from the standard search
// locations when configPath is empty. When no file is found the defaults
// stand, but they include no resource classes, so Validate then returns
// an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/admission-planner")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config file, defaults stand
		} else if os.IsNotExist(err) {
			// explicit path missing, defaults stand
		} else {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes, for tests.
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampling.max_sample_size", 10)
	v.SetDefault("sampling.default_cost_slo", 1<<30)
	v.SetDefault("sampling.default_time_slo", 1<<30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Validate checks the loaded configuration for internal consistency.
// Class-table shape and node-memory bounds are re-validated by
// dagmodel.NewClassTable when the classes are actually built; Validate
// only catches what would otherwise surface as a confusing error deep in
// the planner.
func (c *Config) Validate() error {
	if len(c.Classes) == 0 {
		return fmt.Errorf("at least one resource class must be configured")
	}
	seen := make(map[string]bool, len(c.Classes))
	for _, rc := range c.Classes {
		if rc.Name == "" {
			return fmt.Errorf("resource class name must not be empty")
		}
		if seen[rc.Name] {
			return fmt.Errorf("duplicate resource class name: %s", rc.Name)
		}
		seen[rc.Name] = true
		if rc.UnitCost <= 0 {
			return fmt.Errorf("resource class %s: unit_cost must be positive", rc.Name)
		}
		if rc.NodeMemory <= 0 {
			return fmt.Errorf("resource class %s: node_memory must be positive", rc.Name)
		}
	}
	if c.Sampling.MaxSampleSize <= 0 {
		return fmt.Errorf("sampling.max_sample_size must be positive")
	}
	return nil
}

// ClassTable builds the dagmodel.ClassTable described by this config.
func (c *Config) ClassTable() (*dagmodel.ClassTable, error) {
	classes := make([]dagmodel.ResourceClass, len(c.Classes))
	for i, rc := range c.Classes {
		classes[i] = dagmodel.ResourceClass{
			Name:       dagmodel.ClassName(rc.Name),
			UnitCost:   rc.UnitCost,
			NodeMemory: rc.NodeMemory,
		}
	}
	return dagmodel.NewClassTable(classes)
}
