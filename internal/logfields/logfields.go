package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyCategory    = "category"
	KeyPath        = "path"
	KeyStem        = "stem"
	KeyFile        = "file"
	KeyTemplate    = "template"
	KeyDocuments   = "documents"
	KeyOutcome     = "outcome"
	KeyURL         = "url"
	KeyRevision    = "revision"
	KeyFingerprint = "fingerprint"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Stem(s string) slog.Attr         { return slog.String(KeyStem, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Template(n string) slog.Attr     { return slog.String(KeyTemplate, n) }
func Documents(n int) slog.Attr       { return slog.Int(KeyDocuments, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Revision(r string) slog.Attr     { return slog.String(KeyRevision, r) }
func Fingerprint(f string) slog.Attr  { return slog.String(KeyFingerprint, f) }

// Elapsed converts a duration into the duration_ms attribute.
func Elapsed(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
