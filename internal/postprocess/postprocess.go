// Package postprocess applies textual transforms to rendered document HTML.
package postprocess

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/highlight"
)

// Filter is a total HTML-to-HTML transform.
type Filter func(string) string

// Chain runs filters left to right.
func Chain(filters ...Filter) Filter {
	return func(s string) string {
		for _, f := range filters {
			s = f(s)
		}
		return s
	}
}

// TableClass tags every bare <table> with the presentation class.
func TableClass(s string) string {
	return strings.ReplaceAll(s, "<table>", `<table class="table">`)
}

// New returns the document post-processing chain: highlighting, then table
// classes.
func New(h highlight.Highlighter) Filter {
	if h == nil {
		h = highlight.Noop{}
	}
	return Chain(h.Highlight, TableClass)
}
