// Package history keeps an append-only log of build events in SQLite and
// projects it into per-build summaries for the history command.
package history
