package content

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseFile reads src and splits it into front matter and body. The document
// must carry a parseable date.
func ParseFile(src Source, category string) (*Document, error) {
	// #nosec G304 -- paths come from Locate over configured roots.
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "failed to read document", src.Path).Build()
	}
	doc, err := Parse(raw, src, category)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse builds a Document from file contents.
func Parse(raw []byte, src Source, category string) (*Document, error) {
	fail := func(err error, msg string) error {
		return ferrors.ContentError(err, msg, src.Path).
			WithContext("category", category).
			Build()
	}

	fmRaw, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fail(err, "malformed front matter")
	}
	params, err := frontmatter.ParseYAML(fmRaw)
	if err != nil {
		return nil, fail(err, "malformed front matter")
	}

	date, err := coerceDate(params["date"])
	if err != nil {
		return nil, fail(err, "invalid date")
	}

	canonical, err := frontmatter.Canonical(params, mdfp.FingerprintField)
	if err != nil {
		return nil, fail(err, "failed to canonicalize front matter")
	}

	doc := &Document{
		Title:       stringParam(params, "title"),
		Date:        date,
		Summary:     stringParam(params, "summary"),
		Draft:       params["draft"] == true,
		Tags:        stringsParam(params["tags"]),
		Stem:        src.Stem,
		SourcePath:  src.Path,
		Category:    category,
		Bundle:      src.Bundle,
		Fingerprint: mdfp.CalculateFingerprintFromParts(canonical, string(body)),
		Params:      params,
		Body:        body,
	}
	if doc.Summary == "" {
		doc.Summary = stringParam(params, "description")
	}
	if doc.Title == "" {
		doc.Title = TitleFromStem(src.Stem)
	}
	return doc, nil
}

// TitleFromStem turns "my-first_post" into "My First Post".
func TitleFromStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func coerceDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("front matter has no date")
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

func stringParam(params map[string]any, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func stringsParam(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
