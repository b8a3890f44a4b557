package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns a Markdown document into terminal output wrapped
// at width columns.
type MarkdownRenderer func(doc string, width int) string

// GlamourRenderer renders with glamour's auto-detected style. When glamour
// fails the document is returned unchanged.
func GlamourRenderer(doc string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return strings.TrimRight(out, "\n")
}

// PlainRenderer returns the document as-is.
func PlainRenderer(doc string, _ int) string {
	return doc
}
