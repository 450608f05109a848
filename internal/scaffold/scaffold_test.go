package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

func TestInitProducesBuildableSite(t *testing.T) {
	dir := t.TempDir()

	written, err := Init(Options{Dir: dir, Domain: "blog.example.org", Title: "My: Blog"})
	require.NoError(t, err)
	require.Contains(t, written, filepath.Join(dir, config.DefaultFile))
	require.FileExists(t, filepath.Join(dir, "templates", "post.html"))
	require.FileExists(t, filepath.Join(dir, "static", "style.css"))
	require.DirExists(t, filepath.Join(dir, "snippets"))

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	require.Equal(t, "blog.example.org", cfg.Site.Domain)
	require.Equal(t, "My: Blog", cfg.Site.Title)

	report, err := site.NewBuilder(cfg).Build(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, report.Pages)

	page, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "hello-world", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), `class="chroma"`)
	require.Contains(t, string(page), `class="admonition note"`)

	src := content.Source{Path: filepath.Join(dir, "projects", "hello-world", "index.md"), Stem: "hello-world", Bundle: true}
	doc, err := content.ParseFile(src, "projects")
	require.NoError(t, err)
	require.NotEmpty(t, doc.Fingerprint)
	require.Contains(t, string(page), `<meta name="fingerprint" content="`+doc.Fingerprint+`">`)

	feed, err := os.ReadFile(filepath.Join(cfg.Paths.Output, "feed.xml"))
	require.NoError(t, err)
	require.Contains(t, string(feed), "<link>https://blog.example.org/hello-world/</link>")
	require.Contains(t, string(feed), "<pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>")

	require.FileExists(t, filepath.Join(cfg.Paths.Output, "static", "pygments.css"))
}

func TestInitRefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("site:\n  domain: keep.me\n"), 0o644))

	_, err := Init(Options{Dir: dir})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "keep.me")
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(Options{Dir: dir})
	require.NoError(t, err)
	style := filepath.Join(dir, "static", "style.css")
	require.NoError(t, os.WriteFile(style, []byte("custom"), 0o644))

	_, err = Init(Options{Dir: dir, Force: true})
	require.NoError(t, err)
	data, err := os.ReadFile(style)
	require.NoError(t, err)
	require.NotEqual(t, "custom", string(data))
}
