// Package site turns parsed documents into the output tree.
//
// A Builder runs a fixed sequence of stages against the output directory:
//
//	copy_static -> write_stylesheet -> render_documents -> write_index -> write_feed -> write_domain
//
// Each run is a full rebuild. Outputs never embed the wall clock, so two runs
// over unchanged sources produce byte-identical artifacts.
package site
