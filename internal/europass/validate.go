package europass

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// Result carries the outcome of a structural validation pass. Warnings never
// flip validity; only errors do.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r Result) String() string {
	var b strings.Builder
	if r.Valid {
		b.WriteString("XML is valid")
	} else {
		b.WriteString("XML validation failed")
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):", len(r.Errors))
		for _, e := range r.Errors {
			b.WriteString("\n  - " + e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):", len(r.Warnings))
		for _, w := range r.Warnings {
			b.WriteString("\n  - " + w)
		}
	}
	return b.String()
}

// Validator checks generated documents against the known working structure.
// No official XSD is published for the dialect, so the checks are the ones
// that empirically break the external editor: missing required elements, bad
// base64 payloads, control characters, miscased country codes.
type Validator struct {
	errors   []string
	warnings []string
}

// Control characters other than tab, newline and carriage return crash the
// external editor's JavaScript importer.
var invalidChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)

const maxEmbeddedDataLen = 10 * 1024 * 1024

// Validate runs every structural check over the document.
func (v *Validator) Validate(xmlContent string) Result {
	v.errors = nil
	v.warnings = nil

	// Raw-string checks run before parsing; the characters they catch also
	// make the document unparsable.
	v.checkDeclaration(xmlContent)
	v.checkInvalidCharacters(xmlContent)

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		v.errorf("XML parse error: %v", err)
		return v.result()
	}
	root := doc.Root()
	if root == nil {
		v.errorf("document has no root element")
		return v.result()
	}

	v.checkRoot(root)
	v.checkCandidateStructure(root)
	v.checkPersonElements(root)
	v.checkEmbeddedData(root)
	v.checkCountryCodes(root)
	v.checkLanguageCodes(root)

	return v.result()
}

func (v *Validator) result() Result {
	return Result{Valid: len(v.errors) == 0, Errors: v.errors, Warnings: v.warnings}
}

func (v *Validator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) checkRoot(root *etree.Element) {
	if root.Tag != "Candidate" {
		v.errorf("root element must be 'Candidate', found '%s'", root.Tag)
	}
	ns := root.SelectAttrValue("xmlns", "")
	if ns == "" {
		v.warnf("root element should declare a default namespace")
	} else if ns != NamespaceDefault {
		v.errorf("root element must be in namespace %s, found %s", NamespaceDefault, ns)
	}
}

func (v *Validator) checkCandidateStructure(root *etree.Element) {
	for _, required := range []string{"DocumentID", "CandidateSupplier", "CandidatePerson", "CandidateProfile"} {
		if child(root, required) == nil {
			v.errorf("missing required element: %s", required)
		}
	}
}

func (v *Validator) checkPersonElements(root *etree.Element) {
	person := child(root, "CandidatePerson")
	if person == nil {
		return // already reported
	}
	for _, elem := range person.ChildElements() {
		switch elem.Tag {
		case "PersonTitle":
			v.warnf("PersonTitle may not be supported by all consumers of this dialect")
		case "PersonDescription":
			v.warnf("PersonDescription may not be supported by all consumers of this dialect")
		}
	}
}

func (v *Validator) checkDeclaration(raw string) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "<?xml") {
		v.warnf("missing XML declaration")
		return
	}
	head := trimmed
	if len(head) > 100 {
		head = head[:100]
	}
	if !strings.Contains(strings.ToLower(head), `encoding="utf-8"`) &&
		!strings.Contains(strings.ToLower(head), `encoding='utf-8'`) {
		v.warnf("XML should declare UTF-8 encoding")
	}
}

func (v *Validator) checkEmbeddedData(root *etree.Element) {
	for _, elem := range findAll(root, "EmbeddedData") {
		data := stripWhitespace(elem.Text())
		if data == "" {
			continue
		}
		if _, err := base64.StdEncoding.DecodeString(data); err != nil {
			v.errorf("invalid base64 in EmbeddedData: %v", err)
		}
		if len(data) > maxEmbeddedDataLen {
			v.warnf("large base64 data (%d chars) may cause issues", len(data))
		}
	}
}

func (v *Validator) checkInvalidCharacters(raw string) {
	if matches := invalidChars.FindAllString(raw, 6); len(matches) > 0 {
		shown := matches
		more := ""
		if len(shown) > 5 {
			shown = shown[:5]
			more = " (and more)"
		}
		hexes := make([]string, len(shown))
		for i, m := range shown {
			hexes[i] = fmt.Sprintf("%#x", m[0])
		}
		v.errorf("XML contains invalid control characters: [%s]%s", strings.Join(hexes, " "), more)
	}
	if strings.ContainsRune(raw, 0) {
		v.errorf("XML contains null bytes")
	}
}

func (v *Validator) checkCountryCodes(root *etree.Element) {
	for _, elem := range findAll(root, "CountryCode") {
		code := strings.TrimSpace(elem.Text())
		if code == "" {
			continue
		}
		if code != strings.ToLower(code) {
			v.errorf("CountryCode '%s' must be lowercase (use '%s')", code, strings.ToLower(code))
		}
		if len(code) != 2 {
			v.warnf("CountryCode '%s' should be a 2-letter ISO code", code)
		}
	}
}

func (v *Validator) checkLanguageCodes(root *etree.Element) {
	for _, tag := range []string{"PrimaryLanguageCode", "CompetencyID"} {
		for _, elem := range findAll(root, tag) {
			code := strings.TrimSpace(elem.Text())
			if code == "" {
				continue
			}
			if len(code) < 2 || len(code) > 3 {
				v.warnf("language code '%s' should be a 2-3 letter ISO code", code)
			}
		}
	}
}
