package commands

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host         string `help:"Listen host (overrides serve.host)"`
	Port         int    `short:"p" help:"Listen port (overrides serve.port)"`
	NoLiveReload bool   `name:"no-live-reload" help:"Do not inject the live reload script"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Host != "" {
		cfg.Serve.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.NoLiveReload {
		off := false
		cfg.Serve.LiveReload = &off
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	builder, cleanup, err := newBuilder(cfg, g.Logger, metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			g.Logger.Warn("Cleanup failed", logfields.Error(cerr))
		}
	}()

	srv := preview.New(cfg, builder, preview.WithGatherer(reg), preview.WithLogger(g.Logger))
	return srv.Run(g.Ctx)
}
