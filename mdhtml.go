package mdhtml

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"pkt.systems/mdhtml/internal/assemble"
	"pkt.systems/mdhtml/internal/block"
	"pkt.systems/mdhtml/internal/classify"
	"pkt.systems/mdhtml/internal/inline"
)

// Block is a node of the parsed block tree.
type Block = block.Block

// Kind identifies the structural role of a Block.
type Kind = block.Kind

// Block kinds.
const (
	KindDocument          = block.Document
	KindThematicBreak     = block.ThematicBreak
	KindBlankLine         = block.BlankLine
	KindAtxHeading        = block.AtxHeading
	KindSetextHeading     = block.SetextHeading
	KindIndentedCodeBlock = block.IndentedCodeBlock
	KindFencedCodeBlock   = block.FencedCodeBlock
	KindBlockQuote        = block.BlockQuote
	KindBulletListItem    = block.BulletListItem
	KindOrderedListItem   = block.OrderedListItem
	KindParagraph         = block.Paragraph
	KindLinkDefinition    = block.LinkDefinition
	KindReferenceLink     = block.ReferenceLink
)

// ClassificationError reports malformed input found while classifying lines.
type ClassificationError = classify.Error

// StructuralError reports a token stream the assembler cannot apply.
type StructuralError = assemble.StructuralError

// TranslateRequest configures Translate.
type TranslateRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Options []RenderOption
}

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Exec converts one Markdown document to HTML.
//
// Block quotes and list items nested deeper than MaxNestingDepth are
// rejected with a *ClassificationError wrapping ErrNestingTooDeep, even
// though such input is otherwise well formed.
func Exec(text string, opts ...RenderOption) (string, error) {
	cfg := newRenderConfig(opts)
	if cfg.stripFrontMatter {
		text = string(StripFrontMatter([]byte(text)))
	}
	root, err := Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := newRenderer(cfg).render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Parse classifies and assembles text into a closed block tree and resolves
// the inline content of its paragraphs and headings.
func Parse(text string) (*Block, error) {
	tokens, err := classify.Classify(text)
	if err != nil {
		return nil, err
	}
	root, err := assemble.Build(tokens)
	if err != nil {
		return nil, err
	}
	inline.Process(root)
	return root, nil
}

// Translate reads a Markdown document from req.Reader and writes its HTML to
// req.Writer.
func Translate(req TranslateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("translate: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("translate: writer is nil")
	}
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)
	if _, err := buf.ReadFrom(req.Reader); err != nil {
		return fmt.Errorf("translate: read: %w", err)
	}
	if err := ValidateInput(buf.Bytes()); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	out, err := Exec(buf.String(), req.Options...)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("translate: write: %w", err)
	}
	return nil
}
