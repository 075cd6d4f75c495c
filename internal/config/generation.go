package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/stagehand/internal/generator"
)

const (
	EnvGenerationTemperature = "STAGEHAND_GENERATION_TEMPERATURE"
	EnvGenerationMaxTokens   = "STAGEHAND_GENERATION_MAX_TOKENS"

	defaultTemperature = 0.3
	defaultMaxTokens   = 4000
)

// GenerationConfig holds the sampling parameters sent with every request.
// Temperature is a pointer so an explicit 0 survives defaulting.
type GenerationConfig struct {
	Temperature *float64 `toml:"temperature"`
	MaxTokens   int      `toml:"max_tokens"`
}

// Options returns generator options for model.
func (c *GenerationConfig) Options(model string) generator.Options {
	return generator.Options{
		Model:           model,
		Temperature:     *c.Temperature,
		MaxOutputTokens: c.MaxTokens,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GenerationConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites set fields from overlay.
func (c *GenerationConfig) Merge(overlay *GenerationConfig) {
	if overlay.Temperature != nil {
		t := *overlay.Temperature
		c.Temperature = &t
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

func (c *GenerationConfig) loadDefaults() {
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
}

func (c *GenerationConfig) loadEnv() error {
	if v := os.Getenv(EnvGenerationTemperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGenerationTemperature, err)
		}
		c.Temperature = &t
	}
	if v := os.Getenv(EnvGenerationMaxTokens); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGenerationMaxTokens, err)
		}
		c.MaxTokens = n
	}
	return nil
}

func (c *GenerationConfig) validate() error {
	if *c.Temperature < 0 || *c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2: %g", *c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive: %d", c.MaxTokens)
	}
	return nil
}
