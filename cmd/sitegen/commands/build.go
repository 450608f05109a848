package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	builder, cleanup, err := newBuilder(cfg, g.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			g.Logger.Warn("Cleanup failed", logfields.Error(cerr))
		}
	}()

	g.Logger.Info("Building site", logfields.Path(cfg.Paths.Output))
	report, err := builder.Build(g.Ctx)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}
