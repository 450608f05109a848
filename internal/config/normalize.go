package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// normalize case-folds enumerations and trims identifiers. Unknown enum
// spellings are rejected here rather than silently defaulted.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").Build()
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").Build()
	}
	cfg.Logging.Format = format

	cfg.Site.Domain = strings.TrimSpace(cfg.Site.Domain)
	cfg.Highlight.Style = strings.ToLower(strings.TrimSpace(cfg.Highlight.Style))
	for i := range cfg.Categories {
		cfg.Categories[i].Name = strings.TrimSpace(cfg.Categories[i].Name)
	}
	return nil
}
