package analysis

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderHTML converts a composed report to an HTML fragment. Raw HTML in the
// report is dropped and unsafe link schemes are not linked.
func RenderHTML(report string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return string(markdown.ToHTML([]byte(report), p, r))
}
