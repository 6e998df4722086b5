// Package richtext flattens heterogeneous rich-text content into the flat,
// indentation-capped list format the target editor's delta model requires:
// one ordered-list wrapper, every item tagged data-list="bullet", a ql-ui
// marker span in each item, and nesting expressed as a ql-indent-N class
// capped at a configured maximum.
//
// Two implementations share the contract: HTMLNormalizer walks a DOM tree,
// MarkdownNormalizer tracks a running depth counter over text lines. Deeper
// structure is flattened, never rejected.
package richtext

import (
	"html"
	"regexp"
	"strings"
)

// DefaultMaxIndent is the deepest ql-indent level emitted unless a caller
// overrides it. One level keeps the output readable in automated screening
// contexts.
const DefaultMaxIndent = 1

// Normalizer converts rich-text input to the flat list format.
type Normalizer interface {
	Normalize(input string) (string, error)
}

var stripTags = regexp.MustCompile(`<[^>]+>`)

// BuildList renders plain achievement statements as an already-normalized
// bullet list. Items carrying markup are stripped to text first; empty items
// are skipped. Returns "" when nothing survives.
func BuildList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		text := strings.TrimSpace(stripTags.ReplaceAllString(item, ""))
		if text == "" {
			continue
		}
		b.WriteString(`<li data-list="bullet"><span class="ql-ui"></span>`)
		b.WriteString(html.EscapeString(text))
		b.WriteString(`</li>`)
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ol>" + b.String() + "</ol>"
}
