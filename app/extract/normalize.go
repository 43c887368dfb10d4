package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reSpaceRuns   = regexp.MustCompile(`[ \t\r]+`)
	reNewlineRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans extracted text in a fixed order: collapse whitespace runs
// (newlines excluded) to a single space, collapse 3+ newlines to exactly two,
// convert tabs to spaces, strip control characters, trim. Normalizing
// already-normalized text is a no-op.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reNewlineRuns.ReplaceAllString(s, "\n\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	// Stripping a control character can butt two spaces or newlines up
	// against each other, so the collapse passes run once more.
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reNewlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
