package site

import (
	"html/template"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// Output file names under the output root.
const (
	IndexFile  = "index.html"
	FeedFile   = "feed.xml"
	DomainFile = "CNAME"
	StaticDir  = "static"
)

// Writer renders templates and writes artifacts under one output root.
type Writer struct {
	out    string
	engine TemplateEngine
	names  config.TemplatesConfig
	site   SiteInfo
}

// NewWriter returns a Writer rooted at out.
func NewWriter(out string, engine TemplateEngine, names config.TemplatesConfig, site SiteInfo) *Writer {
	return &Writer{out: out, engine: engine, names: names, site: site}
}

// PageDir is the output directory of a document.
func (w *Writer) PageDir(doc *content.Document) string {
	return filepath.Join(w.out, doc.Stem)
}

// WritePage writes <out>/<stem>/index.html. Directory-style documents first
// get their sibling resources merged into the page directory. It returns the
// number of resource files copied.
func (w *Writer) WritePage(doc *content.Document, html string, toc []markdown.Heading) (int, error) {
	dir := w.PageDir(doc)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return 0, ferrors.FileSystemError(err, "failed to create page directory", dir).Build()
	}

	resources := 0
	if doc.Bundle {
		srcDir := filepath.Dir(doc.SourcePath)
		source := filepath.Base(doc.SourcePath)
		n, err := CopyDir(srcDir, dir, func(rel string) bool { return rel == source })
		resources = n
		if err != nil {
			return resources, ferrors.FileSystemError(err, "failed to copy page resources", srcDir).Build()
		}
	}

	page, err := w.engine.Render(w.names.Page, PageData{
		Post:    doc,
		Content: template.HTML(html), // #nosec G203 -- rendered from trusted site sources
		TOC:     toc,
		Site:    w.site,
	})
	if err != nil {
		return resources, ferrors.WrapError(err, ferrors.CategoryTemplate, "failed to render page").
			WithContext("path", doc.SourcePath).
			Build()
	}

	target := filepath.Join(dir, IndexFile)
	if err := writeFile(target, page); err != nil {
		return resources, ferrors.FileSystemError(err, "failed to write page", target).Build()
	}
	return resources, nil
}

// WriteIndex renders the index template with every collection sorted newest
// first and writes <out>/index.html.
func (w *Writer) WriteIndex(collections []content.Collection) error {
	sorted := make([]content.Collection, 0, len(collections))
	for _, c := range collections {
		sorted = append(sorted, c.Sorted())
	}
	return w.render(w.names.Index, IndexFile, IndexData{Collections: sorted, Site: w.site})
}

// WriteFeed renders the feed template with docs sorted newest first and
// writes <out>/feed.xml.
func (w *Writer) WriteFeed(docs []*content.Document) error {
	posts := content.SortByDateDesc(docs)
	data := FeedData{Posts: posts, Root: w.site.Root, Site: w.site}
	if len(posts) > 0 {
		data.Updated = posts[0].Date
	}
	return w.render(w.names.Feed, FeedFile, data)
}

// CopyStatic merges the static directory into <out>/static.
func (w *Writer) CopyStatic(staticDir string) (int, error) {
	info, err := os.Stat(staticDir)
	if err != nil {
		return 0, ferrors.FileSystemError(err, "static directory is missing", staticDir).Build()
	}
	if !info.IsDir() {
		return 0, ferrors.NewError(ferrors.CategoryFileSystem, "static path is not a directory").
			WithContext("path", staticDir).
			Build()
	}
	n, err := CopyDir(staticDir, filepath.Join(w.out, StaticDir), nil)
	if err != nil {
		return n, ferrors.FileSystemError(err, "failed to copy static assets", staticDir).Build()
	}
	return n, nil
}

// WriteStylesheet writes <out>/static/<name>.
func (w *Writer) WriteStylesheet(name, css string) error {
	target := filepath.Join(w.out, StaticDir, name)
	if err := writeFile(target, []byte(css)); err != nil {
		return ferrors.FileSystemError(err, "failed to write stylesheet", target).Build()
	}
	return nil
}

// WriteDomain writes the domain literal to <out>/CNAME.
func (w *Writer) WriteDomain(domain string) error {
	target := filepath.Join(w.out, DomainFile)
	if err := writeFile(target, []byte(domain)); err != nil {
		return ferrors.FileSystemError(err, "failed to write domain file", target).Build()
	}
	return nil
}

func (w *Writer) render(templateName, file string, data any) error {
	out, err := w.engine.Render(templateName, data)
	if err != nil {
		return err
	}
	target := filepath.Join(w.out, file)
	if err := writeFile(target, out); err != nil {
		return ferrors.FileSystemError(err, "failed to write "+file, target).Build()
	}
	return nil
}
