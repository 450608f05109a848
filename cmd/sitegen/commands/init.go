package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir    string `arg:"" optional:"" default:"." type:"path" help:"Directory to create the site in"`
	Domain string `help:"Site domain written to CNAME" default:"example.com"`
	Title  string `help:"Site title (defaults to the domain)"`
	Force  bool   `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global) error {
	written, err := scaffold.Init(scaffold.Options{
		Dir:    i.Dir,
		Domain: i.Domain,
		Title:  i.Title,
		Force:  i.Force,
	})
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println("created", path)
	}
	g.Logger.Info("Site initialized", "files", len(written))
	return nil
}
