package inline

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type escape struct {
	char byte
	repl string
}

// escapes is the backslash escape table, sorted by char.
var escapes = [...]escape{
	{'!', "!"}, {'"', "&quot;"}, {'#', "#"}, {'$', "$"}, {'%', "%"},
	{'&', "&amp;"}, {'\'', "'"}, {'(', "("}, {')', ")"}, {'*', "*"},
	{'+', "+"}, {',', ","}, {'-', "-"}, {'.', "."}, {'/', "/"},
	{':', ":"}, {';', ";"}, {'<', "&lt;"}, {'=', "="}, {'>', "&gt;"},
	{'?', "?"}, {'@', "@"}, {'[', "["}, {'\\', "\\"}, {']', "]"},
	{'^', "^"}, {'_', "_"}, {'`', "`"}, {'{', "{"}, {'|', "|"},
	{'}', "}"}, {'~', "~"},
}

// lookupEscape returns the replacement for a backslash followed by c.
func lookupEscape(c byte) (string, bool) {
	i := sort.Search(len(escapes), func(i int) bool { return escapes[i].char >= c })
	if i < len(escapes) && escapes[i].char == c {
		return escapes[i].repl, true
	}
	return "", false
}

// ResolveEscapes replaces each backslash escape of an ASCII punctuation
// character. A backslash before anything else stays literal.
func ResolveEscapes(s string) string {
	return resolveEscapes(s, "*")
}

// escapedStar stands in for an escaped '*' between escape resolution and
// lexing, so the emphasis lexer never pairs it.
const escapedStar = "\uE000"

// resolveEscapes is ResolveEscapes with star written for an escaped '*'.
func resolveEscapes(s, star string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if s[i+1] == '*' {
				b.WriteString(star)
				i++
				continue
			}
			if repl, ok := lookupEscape(s[i+1]); ok {
				b.WriteString(repl)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var entityRE = regexp.MustCompile(`&(?:#[xX][0-9a-fA-F]{1,6}|#[0-9]{1,7}|[A-Za-z][A-Za-z0-9]{1,31});`)

// DecodeEntities replaces named and numeric character references with the
// characters they stand for. Unknown references are kept as written.
func DecodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	return entityRE.ReplaceAllStringFunc(s, decodeEntity)
}

// decodeEntity decodes one reference. html.UnescapeString falls back to the
// longest known prefix of an unknown name; such partial decodes are refused.
func decodeEntity(ref string) string {
	out := html.UnescapeString(ref)
	if utf8.RuneCountInString(out) > 2 {
		return ref
	}
	return out
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes text for use in HTML element content and attribute
// values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
