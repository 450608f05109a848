// Package preview serves the generated site for local development. It rebuilds
// on source changes and tells open browsers to reload over server-sent events.
package preview
