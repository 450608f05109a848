// Package config loads and validates sitegen.yaml.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when -c is not given.
const DefaultFile = "sitegen.yaml"

// Config is the complete sitegen configuration.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Paths      PathsConfig      `yaml:"paths"`
	Categories []CategoryConfig `yaml:"categories"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Serve      ServeConfig      `yaml:"serve"`
	Logging    LoggingConfig    `yaml:"logging"`
	History    HistoryConfig    `yaml:"history"`
	Notify     NotifyConfig     `yaml:"notify"`

	// BaseDir is the directory relative paths were resolved against.
	BaseDir string `yaml:"-"`
}

// SiteConfig holds values exposed to templates.
type SiteConfig struct {
	Domain      string `yaml:"domain"` // written verbatim to CNAME
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Root        string `yaml:"root"` // site-root identifier handed to the feed; defaults to domain
}

// PathsConfig locates the output tree and the shared inputs.
type PathsConfig struct {
	Output    string `yaml:"output"`
	Static    string `yaml:"static"`
	Templates string `yaml:"templates"`
}

// CategoryConfig is one content root.
type CategoryConfig struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
	Feed bool   `yaml:"feed"` // documents are included in feed.xml
}

// TemplatesConfig names the three templates the build renders.
type TemplatesConfig struct {
	Page  string `yaml:"page"`
	Index string `yaml:"index"`
	Feed  string `yaml:"feed"`
}

// HighlightConfig controls code highlighting and the generated stylesheet.
type HighlightConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	Style      string `yaml:"style"`
	Stylesheet string `yaml:"stylesheet"` // file name under <output>/static
}

// IsEnabled reports whether highlighting is on (default true).
func (h HighlightConfig) IsEnabled() bool { return h.Enabled == nil || *h.Enabled }

// MarkdownConfig tunes the Markdown renderer.
type MarkdownConfig struct {
	Unsafe    *bool `yaml:"unsafe"`
	HardWraps bool  `yaml:"hard_wraps"`
}

// AllowsRawHTML reports whether raw HTML passes through (default true).
func (m MarkdownConfig) AllowsRawHTML() bool { return m.Unsafe == nil || *m.Unsafe }

// ServeConfig configures the preview server.
type ServeConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	LiveReload *bool  `yaml:"live_reload"`
	Debounce   string `yaml:"debounce"`

	// RebuildInterval forces a rebuild on a fixed schedule; empty disables it.
	RebuildInterval string `yaml:"rebuild_interval"`
}

// LiveReloadEnabled reports whether pages get the reload script (default true).
func (s ServeConfig) LiveReloadEnabled() bool { return s.LiveReload == nil || *s.LiveReload }

// DebounceDuration returns the parsed debounce interval.
func (s ServeConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(s.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// RebuildIntervalDuration returns the scheduled rebuild interval, zero when
// disabled or unparsable.
func (s ServeConfig) RebuildIntervalDuration() time.Duration {
	if s.RebuildInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// HistoryConfig enables the SQLite build log when Database is set.
type HistoryConfig struct {
	Database string `yaml:"database"`
}

// Enabled reports whether build history is recorded.
func (h HistoryConfig) Enabled() bool { return h.Database != "" }

// NotifyConfig enables NATS build notifications when URL is set.
type NotifyConfig struct {
	URL     string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
	Timeout string `yaml:"timeout"`

	// Publish retries after the first failed attempt.
	Retries      int    `yaml:"retries"`
	Backoff      string `yaml:"backoff"` // fixed|linear|exponential
	RetryInitial string `yaml:"retry_initial"`
	RetryMax     string `yaml:"retry_max"`
}

// Enabled reports whether notifications are published.
func (n NotifyConfig) Enabled() bool { return n.URL != "" }

// TimeoutDuration returns the parsed connect timeout.
func (n NotifyConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil || d <= 0 {
		return DefaultNotifyTimeout
	}
	return d
}

// RetryDelays returns the parsed base and cap for publish backoff. Zero
// values are left for the retry policy to default.
func (n NotifyConfig) RetryDelays() (initial, maxDelay time.Duration) {
	initial, _ = time.ParseDuration(n.RetryInitial)
	maxDelay, _ = time.ParseDuration(n.RetryMax)
	return initial, maxDelay
}

// FeedCategories returns the names of categories that feed the RSS output.
func (c *Config) FeedCategories() []string {
	var out []string
	for _, cat := range c.Categories {
		if cat.Feed {
			out = append(out, cat.Name)
		}
	}
	return out
}

// Load reads the configuration file, expands ${VAR} references, applies
// defaults, resolves relative paths against the file's directory and
// validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	// #nosec G304 -- the configuration path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NewError(ferrors.CategoryConfig, "configuration file not found").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
		return nil, ferrors.FileSystemError(err, "failed to read config file", configPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
			WithContext("path", configPath).
			Build()
	}

	base, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, ferrors.FileSystemError(err, "failed to resolve config directory", configPath).Build()
	}
	cfg.ResolvePaths(base)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, normalizes enumerations and applies defaults. It does
// not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePaths makes every relative path absolute against base.
func (c *Config) ResolvePaths(base string) {
	c.BaseDir = base
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	resolve(&c.Paths.Output)
	resolve(&c.Paths.Static)
	resolve(&c.Paths.Templates)
	resolve(&c.History.Database)
	for i := range c.Categories {
		resolve(&c.Categories[i].Root)
	}
}
