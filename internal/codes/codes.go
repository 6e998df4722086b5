// Package codes provides the static lookup tables shared by the XML importer
// and exporter: country names, phone dialing codes, language names and
// proficiency labels. All lookups are pure functions; an unmapped input
// degrades to an empty string, never an error.
package codes

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryCodes maps folded country names to lowercase ISO 3166-1 alpha-2
// codes. The external consumer requires lowercase.
var countryCodes = map[string]string{
	"france":                   "fr",
	"united states":            "us",
	"united states of america": "us",
	"usa":                      "us",
	"united kingdom":           "gb",
	"uk":                       "gb",
	"great britain":            "gb",
	"germany":                  "de",
	"deutschland":              "de",
	"spain":                    "es",
	"espana":                   "es",
	"italy":                    "it",
	"italia":                   "it",
	"belgium":                  "be",
	"belgique":                 "be",
	"netherlands":              "nl",
	"pays-bas":                 "nl",
	"switzerland":              "ch",
	"suisse":                   "ch",
	"portugal":                 "pt",
	"austria":                  "at",
	"poland":                   "pl",
	"ireland":                  "ie",
	"sweden":                   "se",
	"norway":                   "no",
	"denmark":                  "dk",
	"finland":                  "fi",
	"greece":                   "gr",
	"czech republic":           "cz",
	"czechia":                  "cz",
	"hungary":                  "hu",
	"romania":                  "ro",
	"bulgaria":                 "bg",
	"croatia":                  "hr",
	"slovakia":                 "sk",
	"slovenia":                 "si",
	"luxembourg":               "lu",
	"canada":                   "ca",
	"australia":                "au",
	"japan":                    "jp",
	"china":                    "cn",
	"india":                    "in",
	"brazil":                   "br",
	"mexico":                   "mx",
}

// dialingCountries maps phone dialing codes to lowercase country codes.
var dialingCountries = map[string]string{
	"1":   "us", // US/Canada share +1; default to US
	"33":  "fr",
	"44":  "gb",
	"49":  "de",
	"34":  "es",
	"39":  "it",
	"32":  "be",
	"31":  "nl",
	"41":  "ch",
	"351": "pt",
	"43":  "at",
	"48":  "pl",
	"353": "ie",
	"46":  "se",
	"47":  "no",
	"45":  "dk",
	"358": "fi",
	"30":  "gr",
	"420": "cz",
	"36":  "hu",
	"40":  "ro",
	"359": "bg",
	"385": "hr",
	"421": "sk",
	"386": "si",
	"352": "lu",
	"61":  "au",
	"81":  "jp",
	"86":  "cn",
	"91":  "in",
	"55":  "br",
	"52":  "mx",
}

// languageCodes maps folded language names and 2/3-letter variants to
// ISO 639-2/B bibliographic codes, which the external consumer uses.
var languageCodes = map[string]string{
	"french": "fre", "francais": "fre", "fre": "fre", "fra": "fre", "fr": "fre",
	"english": "eng", "anglais": "eng", "eng": "eng", "en": "eng",
	"german": "ger", "deutsch": "ger", "allemand": "ger", "ger": "ger", "deu": "ger", "de": "ger",
	"spanish": "spa", "espanol": "spa", "espagnol": "spa", "spa": "spa", "es": "spa",
	"italian": "ita", "italiano": "ita", "italien": "ita", "ita": "ita", "it": "ita",
	"portuguese": "por", "portugues": "por", "portugais": "por", "por": "por", "pt": "por",
	"dutch": "dut", "nederlands": "dut", "neerlandais": "dut", "dut": "dut", "nld": "dut", "nl": "dut",
	"chinese": "chi", "chinois": "chi", "chi": "chi", "zho": "chi", "zh": "chi",
	"japanese": "jpn", "japonais": "jpn", "jpn": "jpn", "ja": "jpn",
	"russian": "rus", "russe": "rus", "rus": "rus", "ru": "rus",
	"arabic": "ara", "arabe": "ara", "ara": "ara", "ar": "ara",
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and strips combining marks so "Français" and "España"
// match their table entries.
func fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// CountryCode converts a country name to its lowercase 2-letter code.
// A 2-letter input is taken as an already-resolved code and lowercased.
// Unmapped names return "".
func CountryCode(country string) string {
	folded := fold(country)
	if folded == "" {
		return ""
	}
	if len(folded) == 2 {
		return folded
	}
	return countryCodes[folded]
}

// DialingCountry converts a phone dialing code ("33", "+33") to a lowercase
// 2-letter country code. Unmapped codes return "".
func DialingCountry(dialing string) string {
	return dialingCountries[strings.TrimPrefix(strings.TrimSpace(dialing), "+")]
}

// SplitDialing splits the digits of an international number into a known
// dialing code and the national number. Dialing codes are 1 to 3 digits and
// never prefixes of one another within the table, so the longest match wins.
// Reports false when no table entry matches.
func SplitDialing(digits string) (dialing, number string, ok bool) {
	for n := 3; n >= 1; n-- {
		if len(digits) <= n {
			continue
		}
		if _, found := dialingCountries[digits[:n]]; found {
			return digits[:n], digits[n:], true
		}
	}
	return "", digits, false
}

// LanguageCode converts a language name to its ISO 639-2/B code. Unmapped
// names fall back to the first three folded letters, matching what the
// external consumer tolerates for unlisted languages.
func LanguageCode(name string) string {
	folded := fold(name)
	if folded == "" {
		return ""
	}
	if code, ok := languageCodes[folded]; ok {
		return code
	}
	if len(folded) > 3 {
		return folded[:3]
	}
	return folded
}

// LevelToCEFR maps a coarse proficiency label to a CEFR band. Unknown labels
// land on B1 rather than failing the export.
func LevelToCEFR(level string) string {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "native") || strings.Contains(l, "bilingual") || strings.Contains(l, "full professional"):
		return "C2"
	case strings.Contains(l, "professional"):
		return "C1"
	case strings.Contains(l, "limited") || strings.Contains(l, "intermediate"):
		return "B2"
	case strings.Contains(l, "elementary") || strings.Contains(l, "basic"):
		return "A2"
	default:
		return "B1"
	}
}
