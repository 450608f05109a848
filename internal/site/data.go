package site

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// SiteInfo is the site-wide context handed to every template.
type SiteInfo struct {
	Domain      string
	Title       string
	Description string
	Author      string
	Root        string
	URL         string // https://<domain>
	Stylesheet  string // site-relative path of the highlight stylesheet
}

// NewSiteInfo derives template site data from the configuration.
func NewSiteInfo(cfg *config.Config) SiteInfo {
	return SiteInfo{
		Domain:      cfg.Site.Domain,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Author:      cfg.Site.Author,
		Root:        cfg.Site.Root,
		URL:         "https://" + cfg.Site.Domain,
		Stylesheet:  "/static/" + cfg.Highlight.Stylesheet,
	}
}

// PageData is the context of the page template.
type PageData struct {
	Post    *content.Document
	Content template.HTML
	TOC     []markdown.Heading
	Site    SiteInfo
}

// IndexData is the context of the index template.
type IndexData struct {
	Collections []content.Collection
	Site        SiteInfo
}

// Collection returns the named collection, or an empty one.
func (d IndexData) Collection(name string) content.Collection {
	for _, c := range d.Collections {
		if c.Name == name {
			return c
		}
	}
	return content.Collection{Name: name}
}

// FeedData is the context of the feed template.
type FeedData struct {
	Posts   []*content.Document
	Root    string
	Updated time.Time // newest post date; zero without posts
	Site    SiteInfo
}
