package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logging"
)

// Global carries process-wide state into every command.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Build the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site locally and rebuild on change"`
	Init    InitCmd    `cmd:"" help:"Create a new site with default templates"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history database"`
	About   VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply installs a logger before any configuration is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = logging.Setup(os.Stderr, c.Verbose, config.LoggingConfig{})
	return nil
}

// loadConfig reads the configuration and switches logging to its settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = logging.Setup(os.Stderr, c.Verbose, cfg.Logging)
	return cfg, nil
}
