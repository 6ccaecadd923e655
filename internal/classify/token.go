package classify

import "fmt"

// Kind is the structural category of a classified line or line run.
type Kind uint8

const (
	Invalid Kind = iota
	ThematicBreak
	BlankLine
	Paragraph
	AtxHeading
	// SetextUnderline1 is a run of '=' characters.
	SetextUnderline1
	// SetextUnderline2 is a run of '-' characters without interior
	// whitespace, two or more long unless it follows paragraph text. It is
	// either a setext underline or a thematic break; the assembler decides.
	SetextUnderline2
	IndentedCode
	FencedCode
	BlockQuote
	BulletListItem
	OrderedListItem
	LinkDefinition
	ReferenceLink
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	ThematicBreak:    "ThematicBreak",
	BlankLine:        "BlankLine",
	Paragraph:        "Paragraph",
	AtxHeading:       "AtxHeading",
	SetextUnderline1: "SetextUnderline1",
	SetextUnderline2: "SetextUnderline2",
	IndentedCode:     "IndentedCode",
	FencedCode:       "FencedCode",
	BlockQuote:       "BlockQuote",
	BulletListItem:   "BulletListItem",
	OrderedListItem:  "OrderedListItem",
	LinkDefinition:   "LinkDefinition",
	ReferenceLink:    "ReferenceLink",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one classified unit of the input. Container tokens (BlockQuote
// and the list item kinds) carry the classified interior in Children.
type Token struct {
	Kind Kind
	// Line is the 1-based input line the token starts on.
	Line int
	// Text is the payload: paragraph line, heading title, code content or
	// the seed paragraph line of a list item.
	Text string
	// Level is the ATX heading level.
	Level int
	// Info is the info string of a fenced code block.
	Info string
	// Marker and Start describe list items.
	Marker byte
	Start  int
	// Continuation marks a list item token that carries further lines of
	// the most recent item rather than starting a new one.
	Continuation bool
	// Label, Destination and Title describe link definitions; Label is also
	// set for reference links.
	Label       string
	Destination string
	Title       string
	Children    []Token
}
