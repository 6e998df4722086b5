package richtext

import (
	"regexp"
	"strings"
)

// MarkdownNormalizer flattens markdown rich text using a running depth
// counter over lines; no structural tree is available for this input, so
// depth comes from leading indentation (two spaces per level). Headings
// become depth-0 bold bullets and the list that immediately follows a
// heading is shifted one extra level. MaxIndent caps depth the same way the
// HTML variant caps ql-indent; zero means DefaultMaxIndent.
type MarkdownNormalizer struct {
	MaxIndent int
}

var (
	mdHeading  = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	mdListItem = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
)

func (n MarkdownNormalizer) maxIndent() int {
	if n.MaxIndent > 0 {
		return n.MaxIndent
	}
	return DefaultMaxIndent
}

// Normalize converts markdown to flat indented bullet lines.
func (n MarkdownNormalizer) Normalize(input string) (string, error) {
	var out []string
	headingPending := false
	inList := false
	shift := 0

	for _, line := range strings.Split(input, "\n") {
		if m := mdHeading.FindStringSubmatch(line); m != nil {
			text := strings.TrimSpace(m[1])
			if text == "" {
				continue
			}
			out = append(out, "- **"+text+"**")
			headingPending = true
			inList = false
			shift = 0
			continue
		}

		if m := mdListItem.FindStringSubmatch(line); m != nil {
			if !inList {
				inList = true
				shift = 0
				if headingPending {
					shift = 1
				}
				headingPending = false
			}
			depth := len(m[1])/2 + shift
			if depth > n.maxIndent() {
				depth = n.maxIndent()
			}
			out = append(out, strings.Repeat("  ", depth)+"- "+strings.TrimSpace(m[2]))
			continue
		}

		if strings.TrimSpace(line) == "" {
			// Blank line ends the current list block.
			inList = false
			shift = 0
			continue
		}

		// Plain paragraph text passes through and breaks any heading/list
		// association.
		out = append(out, strings.TrimSpace(line))
		headingPending = false
		inList = false
		shift = 0
	}

	return strings.Join(out, "\n"), nil
}
