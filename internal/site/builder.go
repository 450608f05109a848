package site

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/postprocess"
	"git.home.luguber.info/inful/sitegen/internal/revision"
)

// Builder runs full site builds for one configuration. Builds are serialized;
// the markdown renderer is shared between them.
type Builder struct {
	cfg         *config.Config
	renderer    *markdown.Renderer
	highlighter highlight.Highlighter
	templates   TemplateEngine
	recorder    metrics.Recorder
	observers   []BuildObserver
	logger      *slog.Logger

	mu sync.Mutex
}

// Option configures a Builder.
type Option func(*Builder)

// WithRenderer replaces the markdown renderer derived from configuration.
func WithRenderer(r *markdown.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithHighlighter replaces the highlighter derived from configuration.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(b *Builder) { b.highlighter = h }
}

// WithTemplates injects a template engine. Without one, templates are loaded
// from the templates directory at the start of every build.
func WithTemplates(t TemplateEngine) Option {
	return func(b *Builder) { b.templates = t }
}

// WithRecorder reports stage and build metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithObserver adds a lifecycle observer.
func WithObserver(o BuildObserver) Option {
	return func(b *Builder) {
		if o != nil {
			b.observers = append(b.observers, o)
		}
	}
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.renderer == nil {
		b.renderer = markdown.New(
			markdown.WithUnsafe(cfg.Markdown.AllowsRawHTML()),
			markdown.WithHardWraps(cfg.Markdown.HardWraps),
		)
	}
	if b.highlighter == nil {
		if cfg.Highlight.IsEnabled() {
			b.highlighter = highlight.NewChroma(cfg.Highlight.Style)
		} else {
			b.highlighter = highlight.Noop{}
		}
	}
	return b
}

// buildState carries per-build values between stages.
type buildState struct {
	report      *BuildReport
	observer    BuildObserver
	writer      *Writer
	post        postprocess.Filter
	collections []content.Collection
	stems       map[string]string // stem -> source path
	failures    []error
}

// Build runs every stage once. The returned report is never nil.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := newBuildReport()
	report.Revision = b.revision()
	obs := b.observer()
	obs.OnBuildStart(report)

	engine, err := b.engine()
	if err != nil {
		report.finish(err)
		obs.OnBuildComplete(report)
		return report, err
	}

	bs := &buildState{
		report:   report,
		observer: obs,
		writer:   NewWriter(b.cfg.Paths.Output, engine, b.cfg.Templates, NewSiteInfo(b.cfg)),
		post:     postprocess.New(b.highlighter),
		stems:    map[string]string{},
	}

	err = runStages(ctx, bs, b.stages())
	report.finish(err)
	obs.OnBuildComplete(report)
	return report, err
}

func (b *Builder) revision() string {
	if b.cfg.BaseDir == "" {
		return ""
	}
	hash, err := revision.Head(b.cfg.BaseDir)
	if err != nil {
		b.logger.Warn("Failed to read source revision", logfields.Path(b.cfg.BaseDir), logfields.Error(err))
	}
	return hash
}

func (b *Builder) observer() BuildObserver {
	obs := MultiObserver{LoggingObserver{Logger: b.logger}, RecorderObserver{Recorder: b.recorder}}
	return append(obs, b.observers...)
}

func (b *Builder) engine() (TemplateEngine, error) {
	if b.templates != nil {
		return b.templates, nil
	}
	return LoadTemplates(b.cfg.Paths.Templates)
}

func (b *Builder) stages() []StageDef {
	return []StageDef{
		{StageCopyStatic, b.stageCopyStatic},
		{StageWriteStylesheet, b.stageWriteStylesheet},
		{StageRenderDocuments, b.stageRenderDocuments},
		{StageWriteIndex, b.stageWriteIndex},
		{StageWriteFeed, b.stageWriteFeed},
		{StageWriteDomain, b.stageWriteDomain},
	}
}

func (b *Builder) stageCopyStatic(_ context.Context, bs *buildState) error {
	n, err := bs.writer.CopyStatic(b.cfg.Paths.Static)
	bs.report.StaticFiles = n
	return err
}

func (b *Builder) stageWriteStylesheet(_ context.Context, bs *buildState) error {
	if !b.cfg.Highlight.IsEnabled() {
		return nil
	}
	css, err := b.highlighter.Stylesheet()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryBuild, "failed to generate highlight stylesheet").
			WithContext("style", b.cfg.Highlight.Style).
			Build()
	}
	return bs.writer.WriteStylesheet(b.cfg.Highlight.Stylesheet, css)
}

func (b *Builder) stageRenderDocuments(ctx context.Context, bs *buildState) error {
	for _, category := range b.cfg.Categories {
		if err := b.processCategory(ctx, bs, category); err != nil {
			return err
		}
	}
	if len(bs.failures) > 0 {
		return errors.Join(bs.failures...)
	}
	return nil
}

// processCategory renders every document of one category. Document failures
// are collected on bs; only cancellation is returned.
func (b *Builder) processCategory(ctx context.Context, bs *buildState, category config.CategoryConfig) error {
	collection := content.Collection{Name: category.Name}
	log := b.logger.With(logfields.Category(category.Name))

	for src, err := range content.Locate(category.Root) {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			bs.failures = append(bs.failures, err)
			continue
		}

		doc, err := b.renderDocument(bs, src, category.Name)
		if err != nil {
			log.Debug("Document failed", logfields.Path(src.Path), logfields.Error(err))
			bs.failures = append(bs.failures, err)
			continue
		}
		collection.Documents = append(collection.Documents, doc)
	}

	bs.collections = append(bs.collections, collection)
	bs.report.Documents[category.Name] = len(collection.Documents)
	log.Debug("Category rendered", logfields.Documents(len(collection.Documents)))
	return nil
}

func (b *Builder) renderDocument(bs *buildState, src content.Source, category string) (*content.Document, error) {
	t0 := time.Now()
	doc, err := content.ParseFile(src, category)
	if err != nil {
		return nil, err
	}

	if prev, ok := bs.stems[doc.Stem]; ok {
		return nil, ferrors.ContentError(nil, "duplicate page stem", src.Path).
			WithContext("stem", doc.Stem).
			WithContext("conflicts_with", prev).
			Build()
	}
	bs.stems[doc.Stem] = src.Path

	html, err := b.renderer.Convert(doc.Body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryMarkdown, "failed to render markdown").
			WithContext("path", src.Path).
			Build()
	}
	html = bs.post(html)

	resources, err := bs.writer.WritePage(doc, html, b.renderer.TOC())
	bs.report.Resources += resources
	if err != nil {
		return nil, err
	}
	bs.report.Pages++

	b.logger.Debug("Rendered document",
		logfields.Stem(doc.Stem),
		logfields.Path(src.Path),
		logfields.Fingerprint(doc.Fingerprint),
		logfields.Elapsed(time.Since(t0)))
	return doc, nil
}

func (b *Builder) stageWriteIndex(_ context.Context, bs *buildState) error {
	return bs.writer.WriteIndex(bs.collections)
}

func (b *Builder) stageWriteFeed(_ context.Context, bs *buildState) error {
	feed := map[string]bool{}
	for _, name := range b.cfg.FeedCategories() {
		feed[name] = true
	}
	var docs []*content.Document
	for _, c := range bs.collections {
		if feed[c.Name] {
			docs = append(docs, c.Documents...)
		}
	}
	return bs.writer.WriteFeed(docs)
}

func (b *Builder) stageWriteDomain(_ context.Context, bs *buildState) error {
	return bs.writer.WriteDomain(b.cfg.Site.Domain)
}
