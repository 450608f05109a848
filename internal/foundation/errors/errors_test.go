package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "sitegen.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "sitegen.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		require.True(t, IsClassified(err))
		require.True(t, HasCategory(err, CategoryConfig))
		require.True(t, err.IsFatal())
	})
}

func TestClassifiedError_MessageIncludesSortedContext(t *testing.T) {
	cause := stderrors.New("boom")
	err := WrapError(cause, CategoryContent, "failed to parse document").
		WithContext("path", "projects/a.md").
		WithContext("category", "projects").
		Build()

	require.Equal(t, "[content:error] failed to parse document (category=projects, path=projects/a.md): boom", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestAsClassified_FindsWrappedAndJoined(t *testing.T) {
	inner := FileSystemError(stderrors.New("denied"), "failed to write page", "docs/a/index.html").Build()
	wrapped := stderrors.Join(stderrors.New("other"), inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Equal(t, CategoryFileSystem, got.Category())

	path, ok := PathOf(wrapped)
	require.True(t, ok)
	require.Equal(t, "docs/a/index.html", path)
}

func TestWithContext_DoesNotMutateOriginal(t *testing.T) {
	base := NewError(CategoryBuild, "stage failed").Build()
	derived := base.WithContext("stage", "write_index")

	_, ok := base.Context().Get("stage")
	require.False(t, ok)
	stage, ok := derived.Context().GetString("stage")
	require.True(t, ok)
	require.Equal(t, "write_index", stage)
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "template", err: TemplateError(stderrors.New("x"), "render failed", "post.html").Build(), expected: 11},
		{name: "storage", err: NewError(CategoryStorage, "db").Build(), expected: 12},
		{name: "unclassified", err: stderrors.New("plain"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatJoinedErrorsListsEveryPath(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())
	err := stderrors.Join(
		WrapError(stderrors.New("a"), CategoryContent, "missing date").WithContext("path", "projects/a.md").Build(),
		WrapError(stderrors.New("b"), CategoryContent, "malformed front matter").WithContext("path", "snippets/b.md").Build(),
	)

	out := adapter.FormatError(err)
	require.Contains(t, out, "projects/a.md: missing date")
	require.Contains(t, out, "snippets/b.md: malformed front matter")
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var buf bytes.Buffer
	var logBuf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logBuf, nil)))
	adapter.out = &buf
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("site.domain is required").Build())

	require.Equal(t, 7, code)
	require.Contains(t, buf.String(), "site.domain is required")
	require.Contains(t, logBuf.String(), "category=config")
}

func TestContentError(t *testing.T) {
	err := ContentError(nil, "duplicate page stem", "snippets/a.md").WithContext("stem", "a").Build()
	require.True(t, HasCategory(err, CategoryContent))
	require.NoError(t, stderrors.Unwrap(err))

	path, ok := PathOf(err)
	require.True(t, ok)
	require.Equal(t, "snippets/a.md", path)

	derived := err.WithContext("conflicts_with", "projects/a.md")
	_, ok = err.Context().Get("conflicts_with")
	require.False(t, ok, "WithContext must not mutate the original")
	other, _ := derived.Context().GetString("conflicts_with")
	require.Equal(t, "projects/a.md", other)
}
