// Package inline rewrites the text of leaf blocks into HTML fragments.
//
// Text is resolved in a fixed order: character references are decoded,
// backslash escapes applied, surrounding whitespace trimmed, and the result
// lexed into literal runs, emphasis spans and hard line breaks.
package inline

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"pkt.systems/mdhtml/internal/block"
)

// tracer traces with key 'mdhtml.inline'.
func tracer() tracing.Trace {
	return tracing.Select("mdhtml.inline")
}

// ErrMalformed reports text the lexer cannot tokenize.
var ErrMalformed = errors.New("inline: malformed text")

// TokenKind classifies inline tokens.
type TokenKind uint8

const (
	Literal TokenKind = iota
	Emphasis
	HardBreak
	Entity
	Escape
)

// Token is one lexed inline unit. Text holds the literal run, the rendered
// emphasis content or the entity and escape source.
type Token struct {
	Kind TokenKind
	Text string
}

// Process resolves the inline content of every paragraph and heading below
// root. Code blocks and link definitions keep their text.
func Process(root *block.Block) {
	root.Walk(func(b *block.Block, _ int) bool {
		switch b.Kind {
		case block.Paragraph, block.AtxHeading, block.SetextHeading:
			b.Text = Resolve(b.Text)
		case block.LinkDefinition:
			return false
		}
		return true
	})
}

var trailingBreakRE = regexp.MustCompile(` {2,}\n`)

// Resolve rewrites one block's text. When lexing fails the text resolved so
// far is returned unchanged.
func Resolve(text string) string {
	s := DecodeEntities(text)
	star := escapedStar
	if strings.Contains(s, escapedStar) {
		star = "*"
	}
	s = resolveEscapes(s, star)
	s = strings.Trim(s, " \t\n\r")
	restore := func(out string) string {
		if star == "*" {
			return out
		}
		return strings.ReplaceAll(out, escapedStar, "*")
	}
	tokens, err := Lex(s)
	if err != nil {
		tracer().Infof("inline fallback for %q: %v", s, err)
		return restore(s)
	}
	return restore(trailingBreakRE.ReplaceAllString(Interpret(tokens), "<br />"))
}

// Interpret renders tokens to HTML.
func Interpret(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case Emphasis:
			b.WriteString("<em>")
			b.WriteString(tok.Text)
			b.WriteString("</em>")
		case HardBreak:
			b.WriteString("<br />")
		default:
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// Lex splits s into inline tokens.
func Lex(s string) ([]Token, error) {
	if !utf8.ValidString(s) {
		return nil, ErrMalformed
	}
	l := lexer{src: s}
	l.run()
	return l.tokens, nil
}

type lexer struct {
	src    string
	pos    int
	start  int
	tokens []Token
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			l.spaces()
		case '\\':
			l.backslash()
		case '&':
			l.entity()
		case '*':
			l.emphasis()
		default:
			l.pos++
		}
	}
	l.flush()
}

func (l *lexer) flush() {
	if l.start < l.pos {
		l.tokens = append(l.tokens, Token{Kind: Literal, Text: l.src[l.start:l.pos]})
	}
	l.start = l.pos
}

func (l *lexer) emit(kind TokenKind, text string, width int) {
	l.flush()
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text})
	l.pos += width
	l.start = l.pos
}

// spaces turns two or more spaces before a newline into a hard break and
// drops a single space there.
func (l *lexer) spaces() {
	end := l.pos
	for end < len(l.src) && l.src[end] == ' ' {
		end++
	}
	if end >= len(l.src) || l.src[end] != '\n' {
		l.pos = end
		return
	}
	if end-l.pos >= 2 {
		l.emit(HardBreak, "", end-l.pos+1)
		return
	}
	l.flush()
	l.pos = end
	l.start = end
}

func (l *lexer) backslash() {
	if l.pos+1 >= len(l.src) {
		l.pos++
		return
	}
	next := l.src[l.pos+1]
	switch {
	case next == '\n':
		l.emit(HardBreak, "", 2)
	case isASCIIPunct(next):
		l.emit(Escape, l.src[l.pos:l.pos+2], 2)
	default:
		l.pos++
	}
}

func (l *lexer) entity() {
	loc := entityRE.FindStringIndex(l.src[l.pos:])
	if loc == nil || loc[0] != 0 {
		l.pos++
		return
	}
	l.emit(Entity, l.src[l.pos:l.pos+loc[1]], loc[1])
}

// emphasis matches '*' followed by a non-space, non-'*' character up to the
// next '*' that does not follow whitespace. The span contains no '*', so
// lexing its content recurses once at most.
func (l *lexer) emphasis() {
	open := l.pos
	if open+1 >= len(l.src) || isSpace(l.src[open+1]) || l.src[open+1] == '*' {
		l.pos++
		return
	}
	rel := strings.IndexByte(l.src[open+1:], '*')
	if rel < 0 {
		l.pos++
		return
	}
	closing := open + 1 + rel
	if isSpace(l.src[closing-1]) {
		l.pos++
		return
	}
	inner := lexer{src: l.src[open+1 : closing]}
	inner.run()
	l.emit(Emphasis, Interpret(inner.tokens), closing-open+1)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isASCIIPunct(b byte) bool {
	_, ok := lookupEscape(b)
	return ok
}
