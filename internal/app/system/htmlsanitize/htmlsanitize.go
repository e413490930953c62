// Package htmlsanitize scrubs user-supplied HTML before it is stored.
//
// Topic and comment bodies may contain rich text. Sanitize strips
// scripts, event handlers, and unsafe URLs while keeping ordinary
// formatting, links, images, and tables.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Inline formatting beyond the UGC defaults.
	p.AllowElements("u", "s", "sub", "sup", "mark")

	// Rich tables: class for styling hooks, style for width/alignment.
	p.AllowTables()
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")

	return p
}

// Sanitize returns s with all unsafe HTML removed. Safe formatting
// passes through unchanged; plain text is returned as-is.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
