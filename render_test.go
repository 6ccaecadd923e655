package mdhtml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const structureSample = `# Release notes

Intro with *emphasis*.

> A quote
> - with a list
> - of two items

1. first
2. second

[site]: https://example.com "Example"

[site]

` + "```sh\nmake all\n```\n"

func TestRenderStructure(t *testing.T) {
	out := mustExec(t, structureSample, WithNewlines(true))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "Release notes", doc.Find("h1").Text())
	assert.Equal(t, "emphasis", doc.Find("p em").First().Text())
	assert.Equal(t, 2, doc.Find("blockquote ul > li").Length())
	assert.Equal(t, "A quote", doc.Find("blockquote > p").Text())
	assert.Equal(t, 2, doc.Find("ol > li").Length())

	link := doc.Find("a")
	require.Equal(t, 1, link.Length())
	href, _ := link.Attr("href")
	title, _ := link.Attr("title")
	assert.Equal(t, "https://example.com", href)
	assert.Equal(t, "Example", title)
	assert.Equal(t, "site", link.Text())

	class, ok := doc.Find("pre > code").Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "language-sh", class)
	assert.Equal(t, "make all\n", doc.Find("pre > code").Text())
}

// Every element the renderer opens is closed in order, so the html parser
// sees the same nesting whether or not newlines are written.
func TestRenderIsWellFormed(t *testing.T) {
	for _, newlines := range []bool{false, true} {
		out := mustExec(t, structureSample, WithNewlines(newlines))
		nodes, err := html.ParseFragment(strings.NewReader(out), &html.Node{
			Type:     html.ElementNode,
			Data:     "body",
			DataAtom: atom.Body,
		})
		require.NoError(t, err)
		var names []string
		for _, n := range nodes {
			if n.Type == html.ElementNode {
				names = append(names, n.Data)
			}
		}
		assert.Equal(t, []string{"h1", "p", "blockquote", "ol", "p", "pre"}, names, "newlines=%v", newlines)
	}
}

func TestRenderHTMLIsIdempotent(t *testing.T) {
	root, err := Parse(structureSample)
	require.NoError(t, err)
	var first, second bytes.Buffer
	require.NoError(t, RenderHTML(&first, root))
	require.NoError(t, RenderHTML(&second, root))
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, mustExec(t, structureSample), first.String())
}

func TestRenderHTMLRejectsNil(t *testing.T) {
	root, err := Parse("x")
	require.NoError(t, err)
	assert.Error(t, RenderHTML(nil, root))
	assert.Error(t, RenderHTML(&bytes.Buffer{}, nil))
}

func TestRenderUnknownKind(t *testing.T) {
	root, err := Parse("x")
	require.NoError(t, err)
	root.Children[0].Kind = Kind(200)
	assert.Error(t, RenderHTML(&bytes.Buffer{}, root))
}

func TestRenderHeadingLevelClamp(t *testing.T) {
	root, err := Parse("# a")
	require.NoError(t, err)
	root.Children[0].Level = 9
	var b bytes.Buffer
	require.NoError(t, RenderHTML(&b, root))
	assert.Equal(t, "<h6>a</h6>", b.String())
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, normalizeLabel("Foo  Bar"), normalizeLabel(" foo\tbar "))
	assert.Equal(t, normalizeLabel("ẞ"), normalizeLabel("SS"))
	assert.Equal(t, normalizeLabel("\u00e9"), normalizeLabel("e\u0301"))
	assert.NotEqual(t, normalizeLabel("foo"), normalizeLabel("bar"))
}
