// Package config defines service configuration and its layered loader.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file, an optional .env file and FOLIO_ env vars.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataBaseURL, when set, makes the renderer fetch datasets over HTTP from this origin.
	DataBaseURL string `koanf:"data_base_url"`
	// DataDir, when set, serves and reads datasets from a directory instead of the embedded copy.
	DataDir string `koanf:"data_dir"`

	ExperiencePath string `koanf:"experience_path"`
	SkillsPath     string `koanf:"skills_path"`
	ProjectsPath   string `koanf:"projects_path"`
	EducationPath  string `koanf:"education_path"`

	// FetchTimeout bounds a single dataset fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	// StrictSchema rejects records with missing required fields.
	StrictSchema bool `koanf:"strict_schema"`
	// ReplaceOnRender clears a container before appending a fresh dataset.
	ReplaceOnRender bool `koanf:"replace_on_render"`

	MetricsNamespace string `koanf:"metrics_namespace"`
	// SiteTitle is shown in the shell page title and navbar.
	SiteTitle string `koanf:"site_title"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ExperiencePath:   "data/experience.json",
		SkillsPath:       "data/skills.json",
		ProjectsPath:     "data/projects.json",
		EducationPath:    "data/education.json",
		FetchTimeout:     5 * time.Second,
		StrictSchema:     true,
		ReplaceOnRender:  false,
		MetricsNamespace: "folio",
		SiteTitle:        "Portfolio",
	}
}
