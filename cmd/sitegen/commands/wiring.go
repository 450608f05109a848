package commands

import (
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// newBuilder assembles a Builder with the optional history and notification
// observers. The returned cleanup closes what was opened.
func newBuilder(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*site.Builder, func() error, error) {
	opts := []site.Option{site.WithLogger(logger), site.WithRecorder(recorder)}
	var closers []func() error

	if cfg.History.Enabled() {
		store, err := history.Open(cfg.History.Database)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, store.Close)
		opts = append(opts, site.WithObserver(history.NewObserver(store, cfg.Site.Domain, logger)))
	}

	publisher, err := notify.New(cfg.Notify)
	if err != nil {
		logger.Warn("Build notifications disabled", logfields.URL(cfg.Notify.URL), logfields.Error(err))
		publisher = notify.Noop{}
	}
	closers = append(closers, publisher.Close)
	opts = append(opts, site.WithObserver(notify.NewObserver(publisher, cfg.Site.Domain, logger)))

	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	return site.NewBuilder(cfg, opts...), cleanup, nil
}
