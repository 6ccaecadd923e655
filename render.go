package mdhtml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"pkt.systems/mdhtml/internal/block"
	"pkt.systems/mdhtml/internal/inline"
)

// RenderHTML writes the HTML for a parsed block tree to w. Rendering does
// not modify the tree, so a tree can be rendered any number of times.
func RenderHTML(w io.Writer, root *Block, opts ...RenderOption) error {
	if w == nil {
		return fmt.Errorf("render: writer is nil")
	}
	if root == nil {
		return fmt.Errorf("render: root is nil")
	}
	var b strings.Builder
	if err := newRenderer(newRenderConfig(opts)).render(&b, root); err != nil {
		return err
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}

type renderer struct {
	cfg renderConfig
	// anchors maps normalized labels of the definitions rendered so far to
	// their anchor fragments. The first definition of a label wins.
	anchors map[string]string
	out     *strings.Builder
}

func newRenderer(cfg renderConfig) *renderer {
	return &renderer{cfg: cfg, anchors: map[string]string{}}
}

func (r *renderer) render(out *strings.Builder, root *Block) error {
	r.out = out
	return r.block(root, false)
}

func (r *renderer) nl() {
	if r.cfg.newlines {
		r.out.WriteByte('\n')
	}
}

// blocks renders siblings. Runs of list items sharing kind and marker,
// optionally separated by blank lines, form one list.
func (r *renderer) blocks(children []*Block, tight bool) error {
	for i := 0; i < len(children); {
		if children[i].Kind.IsListItem() {
			end := listRunEnd(children, i)
			if err := r.list(children[i:end]); err != nil {
				return err
			}
			i = end
			continue
		}
		if err := r.block(children[i], tight); err != nil {
			return err
		}
		i++
	}
	return nil
}

func listRunEnd(children []*Block, start int) int {
	first := children[start]
	last := start
	for j := start + 1; j < len(children); j++ {
		cur := children[j]
		if cur.Kind == block.BlankLine {
			continue
		}
		if cur.Kind != first.Kind || cur.Marker != first.Marker {
			break
		}
		last = j
	}
	return last + 1
}

func (r *renderer) block(b *Block, tight bool) error {
	switch b.Kind {
	case block.Document:
		return r.blocks(b.Children, false)
	case block.ThematicBreak:
		r.out.WriteString("<hr />")
		r.nl()
	case block.BlankLine:
	case block.Paragraph:
		r.paragraph(b.Text, tight)
	case block.AtxHeading, block.SetextHeading:
		level := strconv.Itoa(headingLevel(b))
		r.out.WriteString("<h" + level + ">")
		r.out.WriteString(b.Text)
		r.out.WriteString("</h" + level + ">")
		r.nl()
	case block.IndentedCodeBlock, block.FencedCodeBlock:
		r.code(b)
	case block.BlockQuote:
		r.out.WriteString("<blockquote>")
		r.nl()
		if err := r.blocks(b.Children, false); err != nil {
			return err
		}
		r.out.WriteString("</blockquote>")
		r.nl()
	case block.BulletListItem, block.OrderedListItem:
		return r.list([]*Block{b})
	case block.LinkDefinition:
		key := normalizeLabel(b.Text)
		if _, ok := r.anchors[key]; !ok && len(b.Children) > 0 {
			r.anchors[key] = b.Children[0].Text
		}
	case block.ReferenceLink:
		if anchor, ok := r.anchors[normalizeLabel(b.Text)]; ok {
			r.paragraph(anchor, tight)
		} else {
			r.paragraph(inline.EscapeHTML(b.Text), tight)
		}
	default:
		return fmt.Errorf("render: unknown block kind %v", b.Kind)
	}
	return nil
}

func headingLevel(b *Block) int {
	if b.Level < 1 {
		return 1
	}
	if b.Level > 6 {
		return 6
	}
	return b.Level
}

func (r *renderer) paragraph(text string, tight bool) {
	if tight {
		r.out.WriteString(text)
		return
	}
	r.out.WriteString("<p>")
	r.out.WriteString(text)
	r.out.WriteString("</p>")
	r.nl()
}

func (r *renderer) code(b *Block) {
	r.out.WriteString("<pre><code")
	if lang := infoLanguage(b.Info); lang != "" && r.cfg.languagePrefix != "" {
		r.out.WriteString(` class="`)
		r.out.WriteString(inline.EscapeHTML(r.cfg.languagePrefix + lang))
		r.out.WriteByte('"')
	}
	r.out.WriteByte('>')
	r.out.WriteString(inline.EscapeHTML(b.Text))
	r.out.WriteString("</code></pre>")
	r.nl()
}

func infoLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return inline.ResolveEscapes(fields[0])
}

// list renders a run of sibling items. A list is loose when blank lines
// separate its items or separate the contents of any item.
func (r *renderer) list(run []*Block) error {
	var items []*Block
	loose := false
	for _, b := range run {
		if b.Kind == block.BlankLine {
			loose = true
			continue
		}
		items = append(items, b)
		if itemLoose(b) {
			loose = true
		}
	}
	first := items[0]
	closing := "</ul>"
	if first.Kind == block.OrderedListItem {
		closing = "</ol>"
		if first.Start != 1 {
			r.out.WriteString(`<ol start="` + strconv.Itoa(first.Start) + `">`)
		} else {
			r.out.WriteString("<ol>")
		}
	} else {
		r.out.WriteString("<ul>")
	}
	r.nl()
	for _, item := range items {
		r.out.WriteString("<li>")
		if err := r.blocks(item.Children, !loose); err != nil {
			return err
		}
		r.out.WriteString("</li>")
		r.nl()
	}
	r.out.WriteString(closing)
	r.nl()
	return nil
}

func itemLoose(item *Block) bool {
	content, blank := false, false
	for _, child := range item.Children {
		if child.Kind == block.BlankLine {
			blank = content
			continue
		}
		if blank {
			return true
		}
		content = true
	}
	return false
}
