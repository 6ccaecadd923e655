package mdhtml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"pkt.systems/mdhtml/internal/block"
)

const (
	dumpIndent   = 2
	minDumpWidth = 20
)

// DumpTree writes an indented outline of the block tree to w, one block per
// entry, wrapped to width columns.
func DumpTree(w io.Writer, root *Block, width int) error {
	if w == nil {
		return fmt.Errorf("dump: writer is nil")
	}
	if root == nil {
		return fmt.Errorf("dump: root is nil")
	}
	var b strings.Builder
	root.Walk(func(node *Block, depth int) bool {
		pad := depth * dumpIndent
		limit := width - pad
		if limit < minDumpWidth {
			limit = minDumpWidth
		}
		entry := wordwrap.String(describeBlock(node), limit)
		b.WriteString(indent.String(entry, uint(pad)))
		b.WriteByte('\n')
		return true
	})
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("dump: write: %w", err)
	}
	return nil
}

func describeBlock(b *Block) string {
	parts := []string{b.Kind.String()}
	switch b.Kind {
	case block.AtxHeading, block.SetextHeading:
		parts = append(parts, "level="+strconv.Itoa(b.Level))
	case block.BulletListItem:
		parts = append(parts, "marker="+strconv.QuoteRune(rune(b.Marker)))
	case block.OrderedListItem:
		parts = append(parts, "start="+strconv.Itoa(b.Start), "delimiter="+strconv.QuoteRune(rune(b.Marker)))
	case block.FencedCodeBlock:
		if b.Info != "" {
			parts = append(parts, "info="+strconv.Quote(b.Info))
		}
	}
	if b.Text != "" {
		parts = append(parts, strconv.Quote(b.Text))
	}
	return strings.Join(parts, " ")
}
