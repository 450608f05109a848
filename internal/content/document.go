package content

import (
	"time"
)

// Document is a parsed source unit. Known front matter fields are lifted onto
// the struct; Params keeps every key for templates.
type Document struct {
	Title       string
	Date        time.Time
	Summary     string
	Draft       bool
	Tags        []string
	Stem        string
	SourcePath  string
	Category    string
	Bundle      bool
	Fingerprint string
	Params      map[string]any
	Body        []byte
}

// Param returns a raw front matter value, or nil.
func (d *Document) Param(key string) any {
	if d == nil || d.Params == nil {
		return nil
	}
	return d.Params[key]
}

// Link is the site-relative URL of the document's page.
func (d *Document) Link() string {
	return "/" + d.Stem + "/"
}

// Collection is one category's documents.
type Collection struct {
	Name      string
	Documents []*Document
}

// Sorted returns a copy of the collection with documents newest first.
func (c Collection) Sorted() Collection {
	return Collection{Name: c.Name, Documents: SortByDateDesc(c.Documents)}
}
