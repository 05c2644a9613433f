package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a pipeline run. Resolution order is
// defaults <- optional YAML file <- environment; the credential comes from
// the environment only and is treated as an opaque value.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	MaxAttempts    int
	BaseDelay      time.Duration
	RequestTimeout time.Duration
	RateLimitRPS   float64

	VideoWorkers int
	MaxVideos    int
}

func Default() Config {
	return Config{
		Model:          "gemini-1.5-flash",
		MaxAttempts:    3,
		BaseDelay:      1 * time.Second,
		RequestTimeout: 30 * time.Second,
		VideoWorkers:   10,
		MaxVideos:      5,
	}
}

// Load resolves the run configuration. path is an optional YAML file; empty
// skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := cfg.applyFile(strings.TrimSpace(path)); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig keeps durations as strings so YAML values use the same
// "750ms"/"30s" syntax as the environment overrides.
type fileConfig struct {
	Model          string   `yaml:"model"`
	BaseURL        string   `yaml:"base_url"`
	MaxAttempts    *int     `yaml:"max_attempts"`
	BaseDelay      string   `yaml:"base_delay"`
	RequestTimeout string   `yaml:"request_timeout"`
	RateLimitRPS   *float64 `yaml:"rate_limit_rps"`
	VideoWorkers   *int     `yaml:"video_workers"`
	MaxVideos      *int     `yaml:"max_videos"`
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if strings.TrimSpace(fc.Model) != "" {
		c.Model = strings.TrimSpace(fc.Model)
	}
	if strings.TrimSpace(fc.BaseURL) != "" {
		c.BaseURL = strings.TrimSpace(fc.BaseURL)
	}
	if fc.MaxAttempts != nil {
		c.MaxAttempts = *fc.MaxAttempts
	}
	if strings.TrimSpace(fc.BaseDelay) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.BaseDelay))
		if err != nil {
			return fmt.Errorf("invalid base_delay in %s: %w", path, err)
		}
		c.BaseDelay = d
	}
	if strings.TrimSpace(fc.RequestTimeout) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.RequestTimeout))
		if err != nil {
			return fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}
		c.RequestTimeout = d
	}
	if fc.RateLimitRPS != nil {
		c.RateLimitRPS = *fc.RateLimitRPS
	}
	if fc.VideoWorkers != nil {
		c.VideoWorkers = *fc.VideoWorkers
	}
	if fc.MaxVideos != nil {
		c.MaxVideos = *fc.MaxVideos
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")); v != "" {
		c.BaseURL = v
	}

	var err error
	if c.MaxAttempts, err = envInt("MAX_ATTEMPTS", c.MaxAttempts); err != nil {
		return err
	}
	if c.BaseDelay, err = envDuration("BASE_DELAY", c.BaseDelay); err != nil {
		return err
	}
	if c.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	if c.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", c.RateLimitRPS); err != nil {
		return err
	}
	if c.VideoWorkers, err = envInt("VIDEO_WORKERS", c.VideoWorkers); err != nil {
		return err
	}
	if c.MaxVideos, err = envInt("MAX_VIDEOS", c.MaxVideos); err != nil {
		return err
	}
	return nil
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
