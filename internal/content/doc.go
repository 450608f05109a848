// Package content discovers Markdown sources under category roots and parses
// them into Documents.
package content
