package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/history"
)

func testGlobal(t *testing.T) *Global {
	t.Helper()
	return &Global{Ctx: t.Context(), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestParseCommands(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("sitegen"), kong.Bind(testGlobal(t)), kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-v", "serve", "--port", "9000", "--no-live-reload"})
	require.NoError(t, err)
	require.Equal(t, "serve", ctx.Command())
	require.True(t, cli.Verbose)
	require.Equal(t, 9000, cli.Serve.Port)
	require.True(t, cli.Serve.NoLiveReload)
	require.True(t, filepath.IsAbs(cli.Config))

	ctx, err = parser.Parse([]string{"history", "-n", "5"})
	require.NoError(t, err)
	require.Equal(t, "history", ctx.Command())
	require.Equal(t, 5, cli.History.Limit)

	ctx, err = parser.Parse([]string{"init", "site", "--domain", "blog.example.org"})
	require.NoError(t, err)
	require.Equal(t, "init <dir>", ctx.Command())
	require.Equal(t, "blog.example.org", cli.Init.Domain)
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	g := testGlobal(t)

	require.NoError(t, (&InitCmd{Dir: dir, Domain: "blog.example.org"}).Run(g))

	root := &CLI{Config: filepath.Join(dir, "sitegen.yaml")}
	require.NoError(t, (&BuildCmd{}).Run(g, root))

	cname, err := os.ReadFile(filepath.Join(dir, "docs", "CNAME"))
	require.NoError(t, err)
	require.Equal(t, "blog.example.org", string(cname))
}

func TestBuildRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	g := testGlobal(t)
	require.NoError(t, (&InitCmd{Dir: dir}).Run(g))

	cfgPath := filepath.Join(dir, "sitegen.yaml")
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\nhistory:\n  database: state/history.db\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	root := &CLI{Config: cfgPath}
	require.NoError(t, (&BuildCmd{}).Run(g, root))
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(g, root))

	store, err := history.Open(filepath.Join(dir, "state", "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.Recent(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "success", runs[0].Status)
}

func TestHistoryRequiresDatabase(t *testing.T) {
	dir := t.TempDir()
	g := testGlobal(t)
	require.NoError(t, (&InitCmd{Dir: dir}).Run(g))

	err := (&HistoryCmd{Limit: 5}).Run(g, &CLI{Config: filepath.Join(dir, "sitegen.yaml")})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestBuildMissingConfig(t *testing.T) {
	err := (&BuildCmd{}).Run(testGlobal(t), &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, []history.Run{{
		BuildID:     "b1",
		Revision:    "0123456789abcdef",
		StartedAt:   time.Now(),
		Status:      "failed",
		Documents:   3,
		Duration:    1500 * time.Millisecond,
		FailedStage: "render_documents",
	}}))
	out := buf.String()
	require.Contains(t, out, "BUILD")
	require.Contains(t, out, "b1")
	require.Contains(t, out, "01234567")
	require.NotContains(t, out, "0123456789")
	require.Contains(t, out, "failed")
	require.Contains(t, out, "1.5s")
	require.Contains(t, out, "render_documents")
}
