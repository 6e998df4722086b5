package richtext

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bullet is the format-independent shape of one flattened list item.
type bullet struct {
	depth int
	text  string
}

var (
	htmlBullet = regexp.MustCompile(`<li data-list="bullet"(?: class="ql-indent-(\d+)")?>([^<]*)`)
	mdBullet   = regexp.MustCompile(`^(\s*)- (.*)$`)
)

func flattenHTML(t *testing.T, s string) []bullet {
	t.Helper()
	s = strings.ReplaceAll(s, `<span class="ql-ui"></span>`, "")
	s = strings.ReplaceAll(s, "<strong>", "")
	s = strings.ReplaceAll(s, "</strong>", "")
	var out []bullet
	for _, m := range htmlBullet.FindAllStringSubmatch(s, -1) {
		depth := 0
		if m[1] != "" {
			var err error
			depth, err = strconv.Atoi(m[1])
			require.NoError(t, err)
		}
		out = append(out, bullet{depth: depth, text: strings.TrimSpace(m[2])})
	}
	return out
}

func flattenMarkdown(t *testing.T, s string) []bullet {
	t.Helper()
	var out []bullet
	for _, line := range strings.Split(s, "\n") {
		m := mdBullet.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(m[2], "**", ""))
		out = append(out, bullet{depth: len(m[1]) / 2, text: text})
	}
	return out
}

// Both normalizer variants must flatten the same content to the same
// structure: identical depths, identical item order, identical depth capping.
func TestNormalizerConformance(t *testing.T) {
	tests := []struct {
		name      string
		maxIndent int
		html      string
		markdown  string
		want      []bullet
	}{
		{
			name:     "Heading followed by flat list",
			html:     `<h2>Réalisations :</h2><ul><li>Item 1</li><li>Item 2</li></ul>`,
			markdown: "## Réalisations :\n- Item 1\n- Item 2",
			want: []bullet{
				{0, "Réalisations :"},
				{1, "Item 1"},
				{1, "Item 2"},
			},
		},
		{
			name:     "Plain list stays at depth zero",
			html:     `<ul><li>One</li><li>Two</li></ul>`,
			markdown: "- One\n- Two",
			want:     []bullet{{0, "One"}, {0, "Two"}},
		},
		{
			name:     "Nesting under a heading is capped at one level",
			html:     `<h2>Tâches :</h2><ul><li>Back-end<ul><li>Pipelines</li></ul></li></ul>`,
			markdown: "## Tâches :\n- Back-end\n  - Pipelines",
			want: []bullet{
				{0, "Tâches :"},
				{1, "Back-end"},
				{1, "Pipelines"},
			},
		},
		{
			name: "Two heading sections in sequence",
			html: `<h2>A</h2><ul><li>a1</li></ul><h2>B</h2><ul><li>b1</li><li>b2</li></ul>`,
			markdown: "## A\n- a1\n\n## B\n- b1\n- b2",
			want: []bullet{
				{0, "A"}, {1, "a1"},
				{0, "B"}, {1, "b1"}, {1, "b2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			htmlOut, err := HTMLNormalizer{MaxIndent: tt.maxIndent}.Normalize(tt.html)
			require.NoError(t, err)
			mdOut, err := MarkdownNormalizer{MaxIndent: tt.maxIndent}.Normalize(tt.markdown)
			require.NoError(t, err)

			assert.Equal(t, tt.want, flattenHTML(t, htmlOut), "html variant structure")
			assert.Equal(t, tt.want, flattenMarkdown(t, mdOut), "markdown variant structure")
		})
	}
}
