package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "FOLIO_"
	envConfigFile = "FOLIO_CONFIG"
	envDotenvFile = "FOLIO_DOTENV"
	defaultDotenv = ".env"
)

// Load builds a Config by layering sources.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file if FOLIO_CONFIG is set
//  3. .env file (FOLIO_DOTENV or ./.env when present); never overrides variables already set
//  4. env (prefix FOLIO_)
func Load() (*Config, error) {
	const op = "config.load"

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrLoadConfig, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrLoadConfig, err)
	}

	// FOLIO_FETCH_TIMEOUT -> fetch_timeout; underscores are kept to match koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrLoadConfig, err)
	}
	// Control variables are not config keys.
	k.Delete("config")
	k.Delete("dotenv")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv populates the process environment from a dotenv file.
// A missing default file is not an error; a missing explicit file is.
func loadDotenv() error {
	path := os.Getenv(envDotenvFile)
	explicit := path != ""
	if !explicit {
		path = defaultDotenv
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	const op = "config.validate"

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%s: %w: addr must not be empty", op, ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%s: %w: fetch_timeout must be positive", op, ErrInvalidConfig)
	}
	if c.DataBaseURL != "" {
		u, err := url.Parse(c.DataBaseURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s: %w: data_base_url must be an absolute http(s) URL, got %q", op, ErrInvalidConfig, c.DataBaseURL)
		}
	}
	for key, p := range map[string]string{
		"experience_path": c.ExperiencePath,
		"skills_path":     c.SkillsPath,
		"projects_path":   c.ProjectsPath,
		"education_path":  c.EducationPath,
	} {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s: %w: %s must not be empty", op, ErrInvalidConfig, key)
		}
	}
	return nil
}
