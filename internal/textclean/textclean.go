// Package textclean strips markup from raw WordPress post bodies and returns
// plain text ready for chunking.
package textclean

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled expressions; post bodies are processed in bulk during ingestion.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|blockquote|pre|table|section|article|figure|figcaption)[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	// \s alone misses the non-breaking spaces that entity decoding produces.
	whitespace = regexp.MustCompile(`[\s\x{00A0}]+`)
)

// Clean strips tags, decodes HTML entities, and collapses all whitespace runs
// to single spaces. WordPress stores post bodies as HTML fragments, so a full
// DOM parse is not required; tag stripping plus entity decoding matches what
// the posts actually contain.
func Clean(rawHTML string) string {
	text := scriptTag.ReplaceAllString(rawHTML, " ")
	text = styleTag.ReplaceAllString(text, " ")
	text = htmlComments.ReplaceAllString(text, " ")
	text = blockElements.ReplaceAllString(text, " ")
	text = allTags.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
