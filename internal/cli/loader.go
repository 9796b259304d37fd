package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bbhtml/internal/bbcode"
)

// Config is the YAML configuration for the renderer. Everything is
// optional; zero values mean engine defaults. Flags override config, and
// config overrides defaults - configuration is injected at startup, never
// baked into logic.
type Config struct {
	// MaxPasses caps convergence passes per transform.
	MaxPasses int `yaml:"max_passes"`

	// ImagePlaceholder replaces [img] tags with an invalid source.
	ImagePlaceholder string `yaml:"image_placeholder"`

	// MentionStyle is the inline style for @mention spans.
	MentionStyle string `yaml:"mention_style"`

	// CachePath points at the sqlite render cache used by batch.
	CachePath string `yaml:"cache_path"`
}

// LoadConfig reads and parses a YAML config file. An empty path returns an
// empty config (all defaults) rather than an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.MaxPasses < 0 {
		return nil, fmt.Errorf("config %s: max_passes must not be negative", path)
	}

	return &cfg, nil
}

// BuildEngine constructs a bbcode.Engine from the config.
func BuildEngine(cfg *Config) *bbcode.Engine {
	var opts []bbcode.Option
	if cfg.MaxPasses > 0 {
		opts = append(opts, bbcode.WithMaxPasses(cfg.MaxPasses))
	}
	if cfg.ImagePlaceholder != "" {
		opts = append(opts, bbcode.WithImagePlaceholder(cfg.ImagePlaceholder))
	}
	if cfg.MentionStyle != "" {
		opts = append(opts, bbcode.WithMentionStyle(cfg.MentionStyle))
	}
	return bbcode.New(opts...)
}
