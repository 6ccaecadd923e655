// Package assemble builds the block tree from a classified token stream.
//
// Tokens are consumed strictly in order and never looked ahead. Each token
// kind has one rule; container tokens recurse into their sub-stream with the
// container block as the new target.
package assemble

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"pkt.systems/mdhtml/internal/block"
	"pkt.systems/mdhtml/internal/classify"
	"pkt.systems/mdhtml/internal/inline"
)

// tracer traces with key 'mdhtml.assemble'.
func tracer() tracing.Trace {
	return tracing.Select("mdhtml.assemble")
}

// StructuralError reports a token the assembler has no rule for.
type StructuralError struct {
	Kind classify.Kind
	Line int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("assemble: line %d: no rule for token %v", e.Line, e.Kind)
}

// Build assembles tokens into a new document and closes it.
func Build(tokens []classify.Token) (*block.Block, error) {
	doc := block.NewDocument()
	if err := Assemble(tokens, doc); err != nil {
		return nil, err
	}
	doc.CloseAll()
	return doc, nil
}

// Assemble applies tokens to target, which is the document or a container
// block.
func Assemble(tokens []classify.Token, target *block.Block) error {
	for _, tok := range tokens {
		if err := apply(tok, target); err != nil {
			return err
		}
	}
	return nil
}

func apply(tok classify.Token, target *block.Block) error {
	switch tok.Kind {
	case classify.ThematicBreak:
		target.Append(block.NewClosed(block.ThematicBreak, ""))
	case classify.BlankLine:
		if deep := target.DeepestOpen(); deep.Kind == block.Paragraph {
			deep.Close()
		}
		target.Append(block.NewClosed(block.BlankLine, ""))
	case classify.Paragraph:
		paragraph(tok.Text, target)
	case classify.AtxHeading:
		heading := block.NewClosed(block.AtxHeading, tok.Text)
		heading.Level = tok.Level
		target.Append(heading)
	case classify.SetextUnderline1:
		if !underline(target, 1) {
			paragraph(tok.Text, target)
		}
	case classify.SetextUnderline2:
		if underline(target, 2) {
			break
		}
		if len(tok.Text) < 3 {
			paragraph(tok.Text, target)
			break
		}
		target.Append(block.NewClosed(block.ThematicBreak, ""))
	case classify.IndentedCode:
		indentedCode(tok.Text, target)
	case classify.FencedCode:
		code := block.NewClosed(block.FencedCodeBlock, tok.Text)
		code.Info = tok.Info
		target.Append(code)
	case classify.BlockQuote:
		if prev := target.Last(); prev != nil && prev.Kind == block.BlockQuote && !prev.Closed() {
			tracer().Debugf("line %d: merge block quote into open sibling", tok.Line)
			return Assemble(tok.Children, prev)
		}
		quote := block.New(block.BlockQuote, "")
		if err := Assemble(tok.Children, quote); err != nil {
			return err
		}
		target.Append(quote)
	case classify.BulletListItem, classify.OrderedListItem:
		return listItem(tok, target)
	case classify.LinkDefinition:
		def := block.New(block.LinkDefinition, tok.Label)
		def.Append(block.NewClosed(block.Paragraph, anchor(tok.Label, tok.Destination, tok.Title)))
		def.CloseAll()
		target.Append(def)
	case classify.ReferenceLink:
		target.Append(block.NewClosed(block.ReferenceLink, tok.Label))
	default:
		return &StructuralError{Kind: tok.Kind, Line: tok.Line}
	}
	return nil
}

// paragraph continues the deepest open paragraph lazily or starts a new one.
func paragraph(text string, target *block.Block) {
	if deep := target.DeepestOpen(); deep.Kind == block.Paragraph && !deep.Closed() {
		_ = deep.AppendLine(text)
		return
	}
	target.Append(block.New(block.Paragraph, text))
}

// underline turns the most recent sibling into a setext heading when it is
// an open paragraph.
func underline(target *block.Block, level int) bool {
	prev := target.Last()
	if prev == nil || prev.Kind != block.Paragraph || prev.Closed() {
		return false
	}
	if err := prev.Retype(block.SetextHeading, level); err != nil {
		return false
	}
	prev.Close()
	return true
}

func indentedCode(text string, target *block.Block) {
	deep := target.DeepestOpen()
	if deep.Kind == block.Paragraph && !deep.Closed() {
		for _, ln := range strings.Split(text, "\n") {
			_ = deep.AppendLine(strings.TrimLeft(ln, " \t"))
		}
		return
	}
	if prev := target.Last(); prev != nil && prev == deep && prev.Kind == block.IndentedCodeBlock {
		_ = prev.AppendLine(text)
		return
	}
	target.Append(block.New(block.IndentedCodeBlock, text))
}

func listItem(tok classify.Token, target *block.Block) error {
	kind := block.BulletListItem
	if tok.Kind == classify.OrderedListItem {
		kind = block.OrderedListItem
	}
	if tok.Continuation {
		if prev := target.Last(); prev != nil && prev.Kind == kind && prev.Marker == tok.Marker && !prev.Closed() {
			tracer().Debugf("line %d: continue %v", tok.Line, kind)
			return Assemble(tok.Children, prev)
		}
		tracer().Infof("line %d: continuation without open %v, starting a new item", tok.Line, kind)
	}
	item := block.New(kind, "")
	item.Marker = tok.Marker
	item.Start = tok.Start
	if tok.Text != "" {
		item.Append(block.New(block.Paragraph, tok.Text))
	}
	if err := Assemble(tok.Children, item); err != nil {
		return err
	}
	target.Append(item)
	return nil
}

// anchor renders the link a definition stands for.
func anchor(label, destination, title string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(inline.EscapeHTML(destination))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(inline.EscapeHTML(title))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(inline.EscapeHTML(label))
	b.WriteString("</a>")
	return b.String()
}
