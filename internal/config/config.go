// Package config loads the YAML run configuration, the monitored
// source list and the mail settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	SQLitePath        string `yaml:"sqlite_path"`
	OutputCSV         string `yaml:"output_csv"`
	OutputMD          string `yaml:"output_md"`
	OutputXLSX        string `yaml:"output_xlsx"` // optional
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxItemsPerSource int    `yaml:"max_items_per_source"`
	OnlyKeepDays      int    `yaml:"only_keep_days"`
	UserAgent         string `yaml:"user_agent"`
}

type Keywords struct {
	ES []string `yaml:"es"`
	EN []string `yaml:"en"`
}

type Config struct {
	Settings Settings `yaml:"settings"`
	Keywords Keywords `yaml:"keywords"`
}

// Load reads and validates the run configuration at path. Required
// settings carry no defaults: a file that omits one fails validation
// instead of silently running on a built-in value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	s := c.Settings
	if s.SQLitePath == "" {
		return fmt.Errorf("settings.sqlite_path is required")
	}
	if s.OutputCSV == "" {
		return fmt.Errorf("settings.output_csv is required")
	}
	if s.OutputMD == "" {
		return fmt.Errorf("settings.output_md is required")
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("settings.timeout_seconds must be positive")
	}
	if s.MaxItemsPerSource <= 0 {
		return fmt.Errorf("settings.max_items_per_source must be positive")
	}
	if s.OnlyKeepDays <= 0 {
		return fmt.Errorf("settings.only_keep_days must be positive")
	}
	if s.UserAgent == "" {
		return fmt.Errorf("settings.user_agent is required")
	}
	if len(c.AllKeywords()) == 0 {
		return fmt.Errorf("keywords: at least one es or en keyword is required")
	}
	return nil
}

// AllKeywords returns the Spanish and English keyword lists merged,
// trimmed and with empties dropped.
func (c *Config) AllKeywords() []string {
	var out []string
	for _, k := range append(append([]string{}, c.Keywords.ES...), c.Keywords.EN...) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

type Source struct {
	Name                 string   `yaml:"name"`
	Type                 string   `yaml:"type"` // "html" or "rss"
	URL                  string   `yaml:"url"`
	IncludeIfURLContains []string `yaml:"include_if_url_contains"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads and validates the monitored source list at path.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}

	for i, src := range f.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source %d: name is required", i)
		}
		if src.Type != "html" && src.Type != "rss" {
			return nil, fmt.Errorf("source %q: type must be 'html' or 'rss'", src.Name)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("source %q: url is required", src.Name)
		}
	}
	return f.Sources, nil
}

type Mail struct {
	User       string
	Password   string
	SMTPHost   string
	SMTPPort   int
	Recipients []string
}

// LoadMail reads the mail settings from EMAIL_* environment variables.
func LoadMail() (*Mail, error) {
	m := &Mail{
		User:     os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASS"),
		SMTPHost: getEnvOrDefault("EMAIL_SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnvIntOrDefault("EMAIL_SMTP_PORT", 587),
	}
	if m.User == "" {
		return nil, fmt.Errorf("EMAIL_USER is required")
	}
	if m.Password == "" {
		return nil, fmt.Errorf("EMAIL_PASS is required")
	}

	if raw := os.Getenv("EMAIL_RECIPIENTS"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				m.Recipients = append(m.Recipients, r)
			}
		}
	}
	if len(m.Recipients) == 0 {
		m.Recipients = []string{m.User}
	}
	return m, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
