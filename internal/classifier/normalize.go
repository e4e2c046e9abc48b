package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize reduces a header label to its matching key: accents are
// stripped, case is folded, '-' and '_' count as spaces and runs of
// whitespace collapse to one space. "  Mês " and "MES" share the key "mes".
func Normalize(label string) string {
	// Transformers and casers keep state, so they are built per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, label)
	if err != nil {
		folded = label
	}
	folded = cases.Fold().String(folded)
	folded = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
