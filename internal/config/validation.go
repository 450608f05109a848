package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateSite,
		cv.validateCategories,
		cv.validatePaths,
		cv.validateHighlight,
		cv.validateServe,
		cv.validateNotify,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, msg string) error {
	return ferrors.ConfigError(msg).WithContext("field", field).Build()
}

func (cv *configurationValidator) validateSite() error {
	domain := cv.config.Site.Domain
	if domain == "" {
		return invalid("site.domain", "site domain is required")
	}
	if strings.Contains(domain, "://") || strings.ContainsAny(domain, "/ \t") {
		return invalid("site.domain", fmt.Sprintf("site domain %q must be a bare host name", domain))
	}
	return nil
}

func (cv *configurationValidator) validateCategories() error {
	if len(cv.config.Categories) == 0 {
		return invalid("categories", "at least one category is required")
	}
	names := sets.New[string]()
	roots := map[string]string{}
	for i, cat := range cv.config.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if cat.Name == "" {
			return invalid(field+".name", "category name is required")
		}
		if !names.Insert(cat.Name) {
			return invalid(field+".name", fmt.Sprintf("duplicate category %q", cat.Name))
		}

		root := filepath.Clean(cat.Root)
		if other, ok := roots[root]; ok {
			return invalid(field+".root", fmt.Sprintf("categories %q and %q share root %s", other, cat.Name, cat.Root))
		}
		roots[root] = cat.Name
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	out := filepath.Clean(cv.config.Paths.Output)
	for _, cat := range cv.config.Categories {
		if filepath.Clean(cat.Root) == out {
			return invalid("paths.output", fmt.Sprintf("output directory must differ from the %q content root", cat.Name))
		}
	}
	if filepath.Clean(cv.config.Paths.Static) == out {
		return invalid("paths.output", "output directory must differ from the static directory")
	}
	if filepath.Clean(cv.config.Paths.Templates) == out {
		return invalid("paths.output", "output directory must differ from the templates directory")
	}
	return nil
}

func (cv *configurationValidator) validateHighlight() error {
	h := cv.config.Highlight
	if h.IsEnabled() && !highlight.StyleExists(h.Style) {
		return invalid("highlight.style", fmt.Sprintf("unknown highlight style %q", h.Style))
	}
	if filepath.Base(h.Stylesheet) != h.Stylesheet {
		return invalid("highlight.stylesheet", "stylesheet must be a plain file name")
	}
	return nil
}

func (cv *configurationValidator) validateServe() error {
	s := cv.config.Serve
	if s.Port < 1 || s.Port > 65535 {
		return invalid("serve.port", fmt.Sprintf("port %d out of range", s.Port))
	}
	if d, err := time.ParseDuration(s.Debounce); err != nil || d <= 0 {
		return invalid("serve.debounce", fmt.Sprintf("invalid debounce %q", s.Debounce))
	}
	if s.RebuildInterval != "" {
		if d, err := time.ParseDuration(s.RebuildInterval); err != nil || d < time.Second {
			return invalid("serve.rebuild_interval", fmt.Sprintf("invalid rebuild interval %q, minimum 1s", s.RebuildInterval))
		}
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if !n.Enabled() {
		return nil
	}
	if n.Subject == "" || strings.ContainsAny(n.Subject, " \t") {
		return invalid("notify.subject", fmt.Sprintf("invalid subject %q", n.Subject))
	}
	if d, err := time.ParseDuration(n.Timeout); err != nil || d <= 0 {
		return invalid("notify.timeout", fmt.Sprintf("invalid timeout %q", n.Timeout))
	}
	if n.Retries < 0 {
		return invalid("notify.retries", fmt.Sprintf("retries %d cannot be negative", n.Retries))
	}
	if _, err := retryBackoffNormalizer.NormalizeWithError(n.Backoff); err != nil {
		return invalid("notify.backoff", err.Error())
	}
	for _, f := range []struct{ field, raw string }{
		{"notify.retry_initial", n.RetryInitial},
		{"notify.retry_max", n.RetryMax},
	} {
		if d, err := time.ParseDuration(f.raw); err != nil || d <= 0 {
			return invalid(f.field, fmt.Sprintf("invalid duration %q", f.raw))
		}
	}
	return nil
}
