// Package scaffold writes the starter files of a new site.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

//go:embed all:files
var files embed.FS

const configTemplate = "sitegen.yaml.tmpl"

// Options describe the site being created.
type Options struct {
	Dir    string
	Domain string
	Title  string
	Force  bool // overwrite existing files
}

// Init writes the configuration file, default templates, stylesheet and a
// sample page into opts.Dir. Existing files are left alone unless Force is
// set; the configuration file must not exist without Force. It returns the
// paths written.
func Init(opts Options) ([]string, error) {
	if opts.Domain == "" {
		opts.Domain = "example.com"
	}
	if opts.Title == "" {
		opts.Title = opts.Domain
	}

	cfgPath := filepath.Join(opts.Dir, config.DefaultFile)
	if _, err := os.Stat(cfgPath); err == nil && !opts.Force {
		return nil, ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", cfgPath).
			Build()
	}

	var written []string
	err := fs.WalkDir(files, "files", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, "files/")
		data, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		if rel == configTemplate {
			rel = config.DefaultFile
			if data, err = renderConfig(data, opts); err != nil {
				return err
			}
		}

		target := filepath.Join(opts.Dir, filepath.FromSlash(rel))
		if _, err := os.Stat(target); err == nil && !opts.Force {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return ferrors.FileSystemError(err, "failed to create directory", filepath.Dir(target)).Build()
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return ferrors.FileSystemError(err, "failed to write file", target).Build()
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return written, err
		}
		return written, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to read embedded scaffold").Build()
	}

	// Empty snippets root so the default categories both exist.
	snippets := filepath.Join(opts.Dir, "snippets")
	if err := os.MkdirAll(snippets, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return written, ferrors.FileSystemError(err, "failed to create directory", snippets).Build()
	}
	return written, nil
}

func renderConfig(src []byte, opts Options) ([]byte, error) {
	tpl, err := template.New(path.Base(configTemplate)).Parse(string(src))
	if err != nil {
		return nil, ferrors.TemplateError(err, "failed to parse config template", configTemplate).Build()
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, opts); err != nil {
		return nil, ferrors.TemplateError(err, "failed to render config template", configTemplate).Build()
	}
	return buf.Bytes(), nil
}
