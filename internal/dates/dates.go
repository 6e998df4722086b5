// Package dates normalizes the loose date strings found in authored and
// extracted CV data to the YYYY-MM form the XML dialect requires.
package dates

import (
	"log"
	"regexp"
)

var (
	yearMonth    = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	yearMonthDay = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashYM      = regexp.MustCompile(`^(\d{4})/(\d{2})$`)
	slashMY      = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
	yearOnly     = regexp.MustCompile(`^(\d{4})$`)
)

// Normalize coerces a date string to YYYY-MM. Recognized shapes are YYYY-MM
// (passed through), YYYY-MM-DD (day truncated), YYYY/MM, MM/YYYY and a bare
// YYYY (January assumed). Anything else degrades to "" with a logged warning
// rather than an error, so one bad date never blocks an export.
func Normalize(date string) string {
	switch {
	case date == "":
		return ""
	case yearMonth.MatchString(date):
		return date
	case yearMonthDay.MatchString(date):
		return date[:7]
	case slashYM.MatchString(date):
		m := slashYM.FindStringSubmatch(date)
		return m[1] + "-" + m[2]
	case slashMY.MatchString(date):
		m := slashMY.FindStringSubmatch(date)
		return m[2] + "-" + m[1]
	case yearOnly.MatchString(date):
		return date + "-01"
	default:
		log.Printf("[DATES] unrecognized date %q dropped", date)
		return ""
	}
}
