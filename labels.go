package mdhtml

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeLabel maps a link label to its matching key: inner whitespace
// collapsed, NFC normalized and case folded.
func normalizeLabel(label string) string {
	collapsed := strings.Join(strings.Fields(label), " ")
	return cases.Fold().String(norm.NFC.String(collapsed))
}
