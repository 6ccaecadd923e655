// Package classify turns Markdown text into a stream of block tokens.
//
// Every line, or run of lines for constructs that span several lines, is
// assigned a structural category. Block quote and list item interiors are
// stripped of their markers and classified recursively into a sub-stream.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdhtml.classify'.
func tracer() tracing.Trace {
	return tracing.Select("mdhtml.classify")
}

type line struct {
	text string
	no   int
}

type itemState struct {
	kind   Kind
	marker byte
	width  int
}

type classifier struct {
	lines  []line
	pos    int
	depth  int
	tokens []Token
	// afterText is set while the previous token of this stream is a
	// paragraph line, so the next line may still continue that paragraph.
	afterText bool
	// lazy is set while an open paragraph may exist at or below this level.
	lazy bool
	// item describes the most recent list item while only lazy paragraph
	// lines have followed it.
	item *itemState
}

// Classify normalizes line endings, splits text into lines and classifies
// them. Malformed input yields an *Error.
func Classify(text string) ([]Token, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	raw := strings.Split(text, "\n")
	if text == "" {
		raw = nil
	}
	lines := make([]line, len(raw))
	for i, s := range raw {
		if !utf8.ValidString(s) {
			return nil, &Error{Line: i + 1, Err: ErrInvalidUTF8}
		}
		if strings.IndexByte(s, 0) >= 0 {
			return nil, &Error{Line: i + 1, Err: ErrBinaryInput}
		}
		lines[i] = line{text: s, no: i + 1}
	}
	if err := Validate([]byte(text)); err != nil {
		return nil, &Error{Err: err}
	}
	c := &classifier{lines: lines}
	if err := c.run(); err != nil {
		return nil, err
	}
	tracer().Debugf("classified %d lines into %d tokens", len(lines), len(c.tokens))
	return c.tokens, nil
}

func (c *classifier) run() error {
	for c.pos < len(c.lines) {
		if err := c.step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *classifier) step() error {
	ln := c.lines[c.pos]
	if isBlank(ln.text) {
		if c.item != nil && c.continuesItem(c.nextNonBlank(c.pos)) {
			return c.continuation()
		}
		c.blank()
		return nil
	}
	cols, off := indentColumns(ln.text)
	if c.item != nil && cols >= c.item.width {
		return c.continuation()
	}
	if cols >= codeIndent {
		c.indentedCode()
		return nil
	}
	rest := ln.text[off:]
	if fence, ok := detectFence(rest, cols); ok {
		c.fencedCode(fence)
		return nil
	}
	if level, title, ok := parseATXHeading(rest); ok {
		c.leaf(Token{Kind: AtxHeading, Line: ln.no, Level: level, Text: title})
		return nil
	}
	if isSetextEquals(rest) {
		c.leaf(Token{Kind: SetextUnderline1, Line: ln.no, Text: strings.TrimRight(rest, " \t")})
		return nil
	}
	// A single '-' under paragraph text underlines it rather than opening
	// an empty item.
	minDashes := 2
	if c.afterText {
		minDashes = 1
	}
	if isDashRun(rest, minDashes) {
		c.leaf(Token{Kind: SetextUnderline2, Line: ln.no, Text: strings.TrimRight(rest, " \t")})
		return nil
	}
	if isThematicBreak(rest) {
		c.leaf(Token{Kind: ThematicBreak, Line: ln.no})
		return nil
	}
	if rest[0] == '>' {
		return c.blockQuote()
	}
	if marker, ok := parseListMarker(rest); ok && c.canStartItem(marker, rest) {
		return c.listItem(marker, cols, rest)
	}
	if !c.afterText && rest[0] == '[' {
		if def, ok := parseLinkDefinition(c.lines[c.pos:]); ok {
			c.pos += def.lines - 1
			c.leaf(Token{
				Kind:        LinkDefinition,
				Line:        ln.no,
				Label:       def.label,
				Destination: def.destination,
				Title:       def.title,
			})
			return nil
		}
		if label, ok := parseReferenceLink(rest); ok {
			c.leaf(Token{Kind: ReferenceLink, Line: ln.no, Label: label})
			return nil
		}
	}
	c.paragraph(ln)
	return nil
}

// canStartItem applies the paragraph interruption rules: an ordered item
// must start at 1 and an item must not be empty.
func (c *classifier) canStartItem(m listMarker, rest string) bool {
	if !c.afterText {
		return true
	}
	if m.ordered && m.start != 1 {
		return false
	}
	return !isBlank(rest[m.width:])
}

func (c *classifier) emit(tok Token) {
	c.tokens = append(c.tokens, tok)
}

// leaf emits a token that ends any pending paragraph and item context.
func (c *classifier) leaf(tok Token) {
	c.emit(tok)
	c.pos++
	c.afterText = false
	c.lazy = false
	c.item = nil
}

func (c *classifier) blank() {
	start := c.lines[c.pos].no
	for c.pos < len(c.lines) && isBlank(c.lines[c.pos].text) {
		c.pos++
	}
	c.emit(Token{Kind: BlankLine, Line: start})
	c.afterText = false
	c.lazy = false
	c.item = nil
}

func (c *classifier) paragraph(ln line) {
	c.emit(Token{Kind: Paragraph, Line: ln.no, Text: strings.TrimLeft(ln.text, " \t")})
	c.pos++
	c.afterText = true
	c.lazy = true
}

// indentedCode emits a single code line when a paragraph may absorb it, and
// otherwise the whole run of indented lines including interior blank lines.
func (c *classifier) indentedCode() {
	ln := c.lines[c.pos]
	if c.lazy {
		c.emit(Token{Kind: IndentedCode, Line: ln.no, Text: stripColumns(ln.text, codeIndent)})
		c.pos++
		c.item = nil
		return
	}
	var body []string
	for c.pos < len(c.lines) {
		cur := c.lines[c.pos].text
		if isBlank(cur) {
			next := c.nextNonBlank(c.pos)
			if next >= len(c.lines) || indentOf(c.lines[next].text) < codeIndent {
				break
			}
		} else if indentOf(cur) < codeIndent {
			break
		}
		body = append(body, stripColumns(cur, codeIndent))
		c.pos++
	}
	c.emit(Token{Kind: IndentedCode, Line: ln.no, Text: strings.Join(body, "\n")})
	c.afterText = false
	c.lazy = false
	c.item = nil
}

func (c *classifier) fencedCode(fence fenceSpec) {
	start := c.lines[c.pos].no
	c.pos++
	var b strings.Builder
	for c.pos < len(c.lines) {
		cur := c.lines[c.pos].text
		c.pos++
		if fence.closedBy(cur) {
			break
		}
		b.WriteString(stripColumns(cur, fence.indent))
		b.WriteByte('\n')
	}
	c.emit(Token{Kind: FencedCode, Line: start, Text: b.String(), Info: fence.info})
	c.afterText = false
	c.lazy = false
	c.item = nil
}

func (c *classifier) blockQuote() error {
	start := c.lines[c.pos].no
	var inner []line
	for c.pos < len(c.lines) {
		cur := c.lines[c.pos]
		if isBlank(cur.text) {
			break
		}
		cols, off := indentColumns(cur.text)
		if cols >= codeIndent || cur.text[off] != '>' {
			break
		}
		inner = append(inner, line{text: stripQuoteMarker(cur.text[off+1:], cols+1), no: cur.no})
		c.pos++
	}
	children, err := c.sub(inner, false, start)
	if err != nil {
		return err
	}
	tracer().Debugf("line %d: block quote with %d interior tokens", start, len(children))
	c.emit(Token{Kind: BlockQuote, Line: start, Children: children})
	c.afterText = false
	c.lazy = true
	c.item = nil
	return nil
}

// stripQuoteMarker removes the optional space after '>'. A following tab
// gives up one column.
func stripQuoteMarker(rest string, col int) string {
	if rest == "" {
		return ""
	}
	switch rest[0] {
	case ' ':
		return rest[1:]
	case '\t':
		width := tabStop - col%tabStop
		return strings.Repeat(" ", width-1) + rest[1:]
	}
	return rest
}

func (c *classifier) listItem(m listMarker, cols int, rest string) error {
	ln := c.lines[c.pos]
	after := rest[m.width:]
	spacing, off := columnsFrom(after, cols+m.width)
	content := after[off:]
	var width int
	var first string
	switch {
	case content == "":
		width = cols + m.width + 1
	case spacing > codeIndent:
		width = cols + m.width + 1
		first = strings.Repeat(" ", spacing-1) + content
	default:
		width = cols + m.width + spacing
		first = content
	}
	c.pos++
	var inner []line
	if first != "" {
		inner = append(inner, line{text: first, no: ln.no})
	}
	inner = append(inner, c.collectIndented(width)...)
	children, err := c.sub(inner, false, ln.no)
	if err != nil {
		return err
	}
	kind := BulletListItem
	if m.ordered {
		kind = OrderedListItem
	}
	tok := Token{Kind: kind, Line: ln.no, Marker: m.char, Start: m.start}
	if len(children) > 0 && children[0].Kind == Paragraph && children[0].Line == ln.no && first != "" {
		tok.Text = children[0].Text
		children = children[1:]
	}
	tok.Children = children
	c.emit(tok)
	c.afterText = false
	c.lazy = true
	c.item = &itemState{kind: kind, marker: m.char, width: width}
	return nil
}

// continuation emits the lines that belong to the most recent list item
// after lazy paragraph lines interrupted it.
func (c *classifier) continuation() error {
	start := c.lines[c.pos].no
	inner := c.collectIndented(c.item.width)
	children, err := c.sub(inner, false, start)
	if err != nil {
		return err
	}
	tracer().Debugf("line %d: list item continuation with %d tokens", start, len(children))
	c.emit(Token{
		Kind:         c.item.kind,
		Line:         start,
		Marker:       c.item.marker,
		Continuation: true,
		Children:     children,
	})
	c.afterText = false
	c.lazy = true
	return nil
}

// collectIndented consumes the lines indented by at least width columns,
// with blank lines kept only when such a line follows them.
func (c *classifier) collectIndented(width int) []line {
	var inner []line
	for c.pos < len(c.lines) {
		cur := c.lines[c.pos]
		if isBlank(cur.text) {
			next := c.nextNonBlank(c.pos)
			if next >= len(c.lines) || indentOf(c.lines[next].text) < width {
				break
			}
			for ; c.pos < next; c.pos++ {
				inner = append(inner, line{no: c.lines[c.pos].no})
			}
			continue
		}
		if indentOf(cur.text) < width {
			break
		}
		inner = append(inner, line{text: stripColumns(cur.text, width), no: cur.no})
		c.pos++
	}
	return inner
}

func (c *classifier) continuesItem(next int) bool {
	return next < len(c.lines) && indentOf(c.lines[next].text) >= c.item.width
}

func (c *classifier) sub(lines []line, afterText bool, at int) ([]Token, error) {
	if c.depth+1 > MaxNestingDepth {
		return nil, &Error{Line: at, Err: ErrNestingTooDeep}
	}
	child := &classifier{lines: lines, depth: c.depth + 1, afterText: afterText, lazy: afterText}
	if err := child.run(); err != nil {
		return nil, err
	}
	return child.tokens, nil
}

func (c *classifier) nextNonBlank(from int) int {
	for i := from; i < len(c.lines); i++ {
		if !isBlank(c.lines[i].text) {
			return i
		}
	}
	return len(c.lines)
}

func indentOf(s string) int {
	cols, _ := indentColumns(s)
	return cols
}
