package classify

import (
	"regexp"
	"strconv"
	"strings"
)

type fenceSpec struct {
	delimiter byte
	length    int
	indent    int
	info      string
}

// detectFence recognizes an opening code fence in a line stripped of at most
// three columns of indentation.
func detectFence(rest string, indent int) (fenceSpec, bool) {
	if rest == "" || (rest[0] != '`' && rest[0] != '~') {
		return fenceSpec{}, false
	}
	count := countRepeat(rest, rest[0])
	if count < 3 {
		return fenceSpec{}, false
	}
	info := strings.Trim(rest[count:], " \t")
	if rest[0] == '`' && strings.IndexByte(info, '`') >= 0 {
		return fenceSpec{}, false
	}
	return fenceSpec{delimiter: rest[0], length: count, indent: indent, info: info}, true
}

func (f fenceSpec) closedBy(line string) bool {
	cols, off := indentColumns(line)
	if cols >= codeIndent {
		return false
	}
	rest := line[off:]
	count := countRepeat(rest, f.delimiter)
	if count < f.length {
		return false
	}
	return isBlank(rest[count:])
}

// parseATXHeading returns the level and title of an ATX heading. The
// optional closing sequence of '#' is removed when it is preceded by a space.
func parseATXHeading(rest string) (int, string, bool) {
	level := countRepeat(rest, '#')
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level < len(rest) && !isSpaceOrTab(rest[level]) {
		return 0, "", false
	}
	title := strings.Trim(rest[level:], " \t")
	trimmed := strings.TrimRight(title, "#")
	switch {
	case trimmed == "":
		title = ""
	case isSpaceOrTab(trimmed[len(trimmed)-1]):
		title = strings.TrimRight(trimmed, " \t")
	}
	return level, title, true
}

func isSetextEquals(rest string) bool {
	trimmed := strings.TrimRight(rest, " \t")
	return trimmed != "" && countRepeat(trimmed, '=') == len(trimmed)
}

// isDashRun reports a run of at least min '-' characters with no interior
// whitespace.
func isDashRun(rest string, min int) bool {
	trimmed := strings.TrimRight(rest, " \t")
	return len(trimmed) >= min && countRepeat(trimmed, '-') == len(trimmed)
}

// isThematicBreak reports three or more '*', '-' or '_' of one kind,
// optionally separated by spaces or tabs, and nothing else.
func isThematicBreak(rest string) bool {
	if rest == "" {
		return false
	}
	ch := rest[0]
	if ch != '*' && ch != '-' && ch != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

type listMarker struct {
	ordered bool
	char    byte
	start   int
	width   int
}

func parseListMarker(rest string) (listMarker, bool) {
	if rest == "" {
		return listMarker{}, false
	}
	switch rest[0] {
	case '-', '+', '*':
		if len(rest) > 1 && !isSpaceOrTab(rest[1]) {
			return listMarker{}, false
		}
		return listMarker{char: rest[0], width: 1}, true
	}
	digits := 0
	for digits < len(rest) && digits < 10 && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits > 9 || digits >= len(rest) {
		return listMarker{}, false
	}
	delim := rest[digits]
	if delim != '.' && delim != ')' {
		return listMarker{}, false
	}
	if digits+1 < len(rest) && !isSpaceOrTab(rest[digits+1]) {
		return listMarker{}, false
	}
	start, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return listMarker{}, false
	}
	return listMarker{ordered: true, char: delim, start: start, width: digits + 1}, true
}

var (
	linkDefinitionRE = regexp.MustCompile(`^\[((?:[^\[\]\\]|\\.)+)\]:(.*)$`)
	linkTitleRE      = regexp.MustCompile(`^(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|\(((?:[^()\\]|\\.)*)\))$`)
	referenceLinkRE  = regexp.MustCompile(`^\[((?:[^\[\]\\]|\\.)+)\](?:\[\])?[ \t]*$`)
)

type linkDefinition struct {
	label       string
	destination string
	title       string
	lines       int
}

// parseLinkDefinition parses a link reference definition starting at
// lines[0]. The destination and the title may each sit on the following
// line.
func parseLinkDefinition(lines []line) (linkDefinition, bool) {
	_, off := indentColumns(lines[0].text)
	m := linkDefinitionRE.FindStringSubmatch(lines[0].text[off:])
	if m == nil || isBlank(m[1]) {
		return linkDefinition{}, false
	}
	def := linkDefinition{label: m[1], lines: 1}
	rem := strings.Trim(m[2], " \t")
	if rem == "" {
		if len(lines) < 2 || isBlank(lines[1].text) {
			return linkDefinition{}, false
		}
		rem = strings.Trim(lines[1].text, " \t")
		def.lines++
	}
	dest, after, ok := splitDestination(rem)
	if !ok {
		return linkDefinition{}, false
	}
	def.destination = dest
	if after != "" {
		title, ok := parseLinkTitle(after)
		if !ok {
			return linkDefinition{}, false
		}
		def.title = title
		return def, true
	}
	if def.lines < len(lines) {
		if title, ok := parseLinkTitle(strings.Trim(lines[def.lines].text, " \t")); ok {
			def.title = title
			def.lines++
		}
	}
	return def, true
}

func splitDestination(rem string) (dest, after string, ok bool) {
	if strings.HasPrefix(rem, "<") {
		end := strings.IndexByte(rem, '>')
		if end < 0 {
			return "", "", false
		}
		dest, after = rem[1:end], rem[end+1:]
		if after != "" && !isSpaceOrTab(after[0]) {
			return "", "", false
		}
		return dest, strings.Trim(after, " \t"), true
	}
	end := strings.IndexAny(rem, " \t")
	if end < 0 {
		return rem, "", true
	}
	return rem[:end], strings.Trim(rem[end:], " \t"), true
}

func parseLinkTitle(s string) (string, bool) {
	m := linkTitleRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	for _, group := range m[1:] {
		if group != "" {
			return group, true
		}
	}
	return "", true
}

func parseReferenceLink(rest string) (string, bool) {
	m := referenceLinkRE.FindStringSubmatch(rest)
	if m == nil || isBlank(m[1]) {
		return "", false
	}
	return m[1], true
}

func countRepeat(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
