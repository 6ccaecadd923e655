package classify

import "strings"

const (
	tabStop = 4
	// codeIndent is the indentation, in columns, that turns a line into
	// indented code.
	codeIndent = 4
)

// columnsFrom measures the leading spaces and tabs of s, with s starting at
// column start. It returns the width in columns and the byte offset of the
// first other character.
func columnsFrom(s string, start int) (width, offset int) {
	col := start
	for offset < len(s) {
		switch s[offset] {
		case ' ':
			col++
		case '\t':
			col += tabStop - col%tabStop
		default:
			return col - start, offset
		}
		offset++
	}
	return col - start, offset
}

func indentColumns(s string) (int, int) {
	return columnsFrom(s, 0)
}

// stripColumns removes up to n columns of leading whitespace. A tab that
// straddles column n is replaced by the spaces that remain of it.
func stripColumns(s string, n int) string {
	col := 0
	for i := 0; i < len(s); i++ {
		if col >= n {
			return s[i:]
		}
		switch s[i] {
		case ' ':
			col++
		case '\t':
			next := col + tabStop - col%tabStop
			if next > n {
				return strings.Repeat(" ", next-n) + s[i+1:]
			}
			col = next
		default:
			return s[i:]
		}
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}
