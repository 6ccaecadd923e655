// Package block holds the mutable block tree built by the assembler.
//
// A tree has exactly one Document root. At any moment at most one chain of
// blocks, starting at the root and following each container's last child, is
// open; appending a new child to a container closes the previous last child
// together with everything still open below it. Closed blocks never accept
// text again.
package block

import (
	"errors"
	"fmt"
)

// Kind identifies the structural role of a block.
type Kind uint8

const (
	Document Kind = iota
	ThematicBreak
	BlankLine
	AtxHeading
	SetextHeading
	IndentedCodeBlock
	FencedCodeBlock
	BlockQuote
	BulletListItem
	OrderedListItem
	Paragraph
	LinkDefinition
	ReferenceLink
)

var kindNames = [...]string{
	Document:          "Document",
	ThematicBreak:     "ThematicBreak",
	BlankLine:         "BlankLine",
	AtxHeading:        "AtxHeading",
	SetextHeading:     "SetextHeading",
	IndentedCodeBlock: "IndentedCodeBlock",
	FencedCodeBlock:   "FencedCodeBlock",
	BlockQuote:        "BlockQuote",
	BulletListItem:    "BulletListItem",
	OrderedListItem:   "OrderedListItem",
	Paragraph:         "Paragraph",
	LinkDefinition:    "LinkDefinition",
	ReferenceLink:     "ReferenceLink",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsContainer reports whether blocks of kind k hold child blocks.
func (k Kind) IsContainer() bool {
	switch k {
	case Document, BlockQuote, BulletListItem, OrderedListItem, LinkDefinition:
		return true
	}
	return false
}

// IsListItem reports whether k is one of the list item kinds.
func (k Kind) IsListItem() bool {
	return k == BulletListItem || k == OrderedListItem
}

var (
	// ErrClosed reports an attempt to change a closed block.
	ErrClosed = errors.New("block is closed")
	// ErrRetyped reports a second retype of the same block.
	ErrRetyped = errors.New("block was already retyped")
)

// Block is a node of the block tree.
type Block struct {
	Kind Kind
	// Level is the heading level (1..6) of an AtxHeading and the underline
	// type (1 for '=', 2 for '-') of a SetextHeading.
	Level int
	// Text is the raw, later inline-processed, content of a leaf.
	// For LinkDefinition and ReferenceLink it is the link label.
	Text string
	// Info is the info string of a fenced code block.
	Info string
	// Marker is the bullet character of a bullet item or the delimiter
	// ('.' or ')') of an ordered item.
	Marker byte
	// Start is the number of an ordered item.
	Start    int
	Children []*Block

	closed  bool
	retyped bool
}

// New returns an open block of the given kind.
func New(kind Kind, text string) *Block {
	return &Block{Kind: kind, Text: text}
}

// NewClosed returns a block that is closed on creation.
func NewClosed(kind Kind, text string) *Block {
	return &Block{Kind: kind, Text: text, closed: true}
}

// NewDocument returns an empty, open document root.
func NewDocument() *Block {
	return New(Document, "")
}

// Closed reports whether b has been closed.
func (b *Block) Closed() bool { return b.closed }

// Close closes b. Closing is idempotent.
func (b *Block) Close() { b.closed = true }

// CloseAll closes b and every open descendant.
func (b *Block) CloseAll() {
	for cur := b; cur != nil; {
		cur.closed = true
		if len(cur.Children) == 0 {
			return
		}
		cur = cur.Children[len(cur.Children)-1]
	}
}

// Last returns the most recently appended child of b, or nil.
func (b *Block) Last() *Block {
	if len(b.Children) == 0 {
		return nil
	}
	return b.Children[len(b.Children)-1]
}

// Append adds child as the last child of b. The previous last child and its
// open descendants are closed first.
func (b *Block) Append(child *Block) *Block {
	if prev := b.Last(); prev != nil {
		prev.CloseAll()
	}
	b.Children = append(b.Children, child)
	return child
}

// OpenPath returns the child indexes leading from b to its deepest open
// descendant. An empty path means b itself is the deepest open block.
func (b *Block) OpenPath() []int {
	var path []int
	cur := b
	for {
		last := cur.Last()
		if last == nil || last.closed {
			return path
		}
		path = append(path, len(cur.Children)-1)
		cur = last
	}
}

// At resolves a child index path relative to b. It returns nil if the path
// does not exist.
func (b *Block) At(path []int) *Block {
	cur := b
	for _, idx := range path {
		if idx < 0 || idx >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[idx]
	}
	return cur
}

// DeepestOpen returns the deepest open block reachable from b by following
// last children.
func (b *Block) DeepestOpen() *Block {
	return b.At(b.OpenPath())
}

// AppendLine appends text as a new line of b's content.
func (b *Block) AppendLine(text string) error {
	if b.closed {
		return ErrClosed
	}
	b.Text += "\n" + text
	return nil
}

// Retype changes the kind and level of an open block. A block can be
// retyped once.
func (b *Block) Retype(kind Kind, level int) error {
	if b.closed {
		return ErrClosed
	}
	if b.retyped {
		return ErrRetyped
	}
	b.Kind = kind
	b.Level = level
	b.retyped = true
	return nil
}

// Walk calls fn for b and its descendants in document order. Children of a
// block are skipped when fn returns false for it.
func (b *Block) Walk(fn func(b *Block, depth int) bool) {
	b.walk(fn, 0)
}

func (b *Block) walk(fn func(*Block, int) bool, depth int) {
	if !fn(b, depth) {
		return
	}
	for _, child := range b.Children {
		child.walk(fn, depth+1)
	}
}
