package config

import (
	"fmt"
	"time"
)

const (
	DefaultOutputDir     = "docs"
	DefaultStaticDir     = "static"
	DefaultTemplatesDir  = "templates"
	DefaultPageTemplate  = "post.html"
	DefaultIndexTemplate = "index.html"
	DefaultFeedTemplate  = "rss.xml"
	DefaultStyle         = "monokai"
	DefaultStylesheet    = "pygments.css"
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8000
	DefaultDebounce      = 300 * time.Millisecond
	DefaultNotifySubject = "sitegen.builds"
	DefaultNotifyTimeout = 2 * time.Second
	DefaultRetryInitial  = 500 * time.Millisecond
	DefaultRetryMax      = 5 * time.Second
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier runs every domain applier in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier chain used by Parse.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&PathsDefaultApplier{},
			&CategoriesDefaultApplier{},
			&TemplatesDefaultApplier{},
			&HighlightDefaultApplier{},
			&ServeDefaultApplier{},
			&NotifyDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// SiteDefaultApplier derives the feed root and title from the domain.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Root == "" {
		cfg.Site.Root = cfg.Site.Domain
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = cfg.Site.Domain
	}
	return nil
}

// PathsDefaultApplier handles output and input directory defaults.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutputDir
	}
	if cfg.Paths.Static == "" {
		cfg.Paths.Static = DefaultStaticDir
	}
	if cfg.Paths.Templates == "" {
		cfg.Paths.Templates = DefaultTemplatesDir
	}
	return nil
}

// CategoriesDefaultApplier provides the projects and snippets categories when
// none are configured, and fills in missing roots.
type CategoriesDefaultApplier struct{}

func (c *CategoriesDefaultApplier) Domain() string { return "categories" }

func (c *CategoriesDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		cfg.Categories = []CategoryConfig{
			{Name: "projects", Root: "projects", Feed: true},
			{Name: "snippets", Root: "snippets"},
		}
		return nil
	}
	for i := range cfg.Categories {
		if cfg.Categories[i].Root == "" {
			cfg.Categories[i].Root = cfg.Categories[i].Name
		}
	}
	return nil
}

// TemplatesDefaultApplier handles template name defaults.
type TemplatesDefaultApplier struct{}

func (t *TemplatesDefaultApplier) Domain() string { return "templates" }

func (t *TemplatesDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Templates.Page == "" {
		cfg.Templates.Page = DefaultPageTemplate
	}
	if cfg.Templates.Index == "" {
		cfg.Templates.Index = DefaultIndexTemplate
	}
	if cfg.Templates.Feed == "" {
		cfg.Templates.Feed = DefaultFeedTemplate
	}
	return nil
}

// HighlightDefaultApplier handles highlight style defaults.
type HighlightDefaultApplier struct{}

func (h *HighlightDefaultApplier) Domain() string { return "highlight" }

func (h *HighlightDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Highlight.Style == "" {
		cfg.Highlight.Style = DefaultStyle
	}
	if cfg.Highlight.Stylesheet == "" {
		cfg.Highlight.Stylesheet = DefaultStylesheet
	}
	return nil
}

// ServeDefaultApplier handles preview server defaults.
type ServeDefaultApplier struct{}

func (s *ServeDefaultApplier) Domain() string { return "serve" }

func (s *ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Host == "" {
		cfg.Serve.Host = DefaultHost
	}
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = DefaultPort
	}
	if cfg.Serve.Debounce == "" {
		cfg.Serve.Debounce = DefaultDebounce.String()
	}
	return nil
}

// NotifyDefaultApplier handles NATS notification defaults.
type NotifyDefaultApplier struct{}

func (n *NotifyDefaultApplier) Domain() string { return "notify" }

func (n *NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.Notify.Timeout == "" {
		cfg.Notify.Timeout = DefaultNotifyTimeout.String()
	}
	if cfg.Notify.Backoff == "" {
		cfg.Notify.Backoff = string(RetryBackoffLinear)
	}
	if cfg.Notify.RetryInitial == "" {
		cfg.Notify.RetryInitial = DefaultRetryInitial.String()
	}
	if cfg.Notify.RetryMax == "" {
		cfg.Notify.RetryMax = DefaultRetryMax.String()
	}
	return nil
}
