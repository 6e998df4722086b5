package richtext

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLNormalizer flattens HTML rich text in two phases: a DOM pass for
// structural transforms (headings, link hardening) and a string pass for the
// editor's list format. MaxIndent caps the emitted ql-indent level; zero
// means DefaultMaxIndent.
type HTMLNormalizer struct {
	MaxIndent int
}

var (
	ulOpen       = regexp.MustCompile(`<ul([^>]*)>`)
	liOpen       = regexp.MustCompile(`<li([^>]*)>`)
	liClassAttr  = regexp.MustCompile(`class="([^"]*)"`)
	liIndent     = regexp.MustCompile(`ql-indent-(\d+)`)
	liMarker     = regexp.MustCompile(`(<li[^>]*>)(<span class="ql-ui"></span>)?`)
	headingClass = regexp.MustCompile(`\s*heading-(?:child|parent)\s*`)
	emptyClass   = regexp.MustCompile(`\s*class=""`)

	trailingInline = regexp.MustCompile(`\s+(</(?:strong|em|b|i|u)>)`)
	leadingInline  = regexp.MustCompile(`(<(?:strong|em|b|i|u)>)\s+`)
	multiSpace     = regexp.MustCompile(`  +`)
	adjacentLists  = regexp.MustCompile(`</ol>\s*<ol>`)
)

func (n HTMLNormalizer) maxIndent() int {
	if n.MaxIndent > 0 {
		return n.MaxIndent
	}
	return DefaultMaxIndent
}

// Normalize converts the input to a single-line flat bullet list. Whitespace
// input passes through untouched.
func (n HTMLNormalizer) Normalize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return input, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("parsing rich text html: %w", err)
	}
	body := doc.Find("body")

	convertHeadings(body)
	secureLinks(body)

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing rich text html: %w", err)
	}

	out = n.listsToEditorFormat(out)
	out = strings.TrimSpace(strings.ReplaceAll(out, "\n", ""))
	return postProcess(out), nil
}

// convertHeadings rewrites headings into bold bullet items. A heading whose
// next element sibling is a list becomes a depth-0 bold item and the list's
// items are marked for one extra indent level; a bare heading becomes a bold
// paragraph.
func convertHeadings(body *goquery.Selection) {
	body.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, heading *goquery.Selection) {
		text := strings.TrimSpace(heading.Text())
		if text == "" {
			heading.Remove()
			return
		}
		next := heading.Next()
		name := goquery.NodeName(next)
		if next.Length() > 0 && (name == "ul" || name == "ol") {
			next.Find("li").AddClass("heading-child")
			heading.ReplaceWithHtml(
				`<ol><li data-list="bullet" class="heading-parent">` +
					`<span class="ql-ui"></span><strong>` + html.EscapeString(text) + `</strong></li></ol>`)
			return
		}
		heading.ReplaceWithHtml(`<p><strong>` + html.EscapeString(text) + `</strong></p>`)
	})
}

// secureLinks adds target and rel attributes to external links.
func secureLinks(body *goquery.Selection) {
	body.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			link.SetAttr("target", "_blank")
			link.SetAttr("rel", "noopener noreferrer")
		}
	})
}

// listsToEditorFormat rewrites every list into the editor's flat format:
// ordered wrapper, data-list="bullet" on each item, a ql-ui marker span, and
// depth carried by a capped ql-indent class.
func (n HTMLNormalizer) listsToEditorFormat(out string) string {
	out = ulOpen.ReplaceAllString(out, "<ol$1>")
	out = strings.ReplaceAll(out, "</ul>", "</ol>")

	out = liOpen.ReplaceAllStringFunc(out, func(tag string) string {
		attrs := liOpen.FindStringSubmatch(tag)[1]
		classes := ""
		if m := liClassAttr.FindStringSubmatch(attrs); m != nil {
			classes = m[1]
		}
		indent := 0
		if m := liIndent.FindStringSubmatch(classes); m != nil {
			indent, _ = strconv.Atoi(m[1])
		}
		if strings.Contains(classes, "heading-child") && indent == 0 {
			indent = 1
		}
		if indent > n.maxIndent() {
			indent = n.maxIndent()
		}
		if indent > 0 {
			return fmt.Sprintf(`<li data-list="bullet" class="ql-indent-%d">`, indent)
		}
		return `<li data-list="bullet">`
	})

	// Marker span goes right after the tag; the optional group keeps a second
	// pass from doubling it.
	out = liMarker.ReplaceAllString(out, `$1<span class="ql-ui"></span>`)

	out = headingClass.ReplaceAllString(out, "")
	out = emptyClass.ReplaceAllString(out, "")
	return out
}

// postProcess fixes text-level spacing and merges the adjacent lists left
// behind by heading conversion.
func postProcess(out string) string {
	out = trailingInline.ReplaceAllString(out, "$1 ")
	out = leadingInline.ReplaceAllString(out, " $1")
	out = multiSpace.ReplaceAllString(out, " ")
	out = adjacentLists.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
