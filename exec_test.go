package mdhtml

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExec(t *testing.T, src string, opts ...RenderOption) string {
	t.Helper()
	out, err := Exec(src, opts...)
	require.NoError(t, err, "Exec(%q)", src)
	return out
}

func TestExecDocuments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdhtml.inline")
	defer teardown()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"thematic breaks", "***\n---\n___", "<hr /><hr /><hr />"},
		{"not a break", "_ _ _ _ a", "<p>_ _ _ _ a</p>"},
		{"paragraph lines", "aaa\n  bbb\n\nccc", "<p>aaa\nbbb</p><p>ccc</p>"},
		{
			"atx levels",
			"# foo\n## foo\n### foo\n#### foo\n##### foo\n###### foo",
			"<h1>foo</h1><h2>foo</h2><h3>foo</h3><h4>foo</h4><h5>foo</h5><h6>foo</h6>",
		},
		{"seven hashes", "####### foo", "<p>####### foo</p>"},
		{"hash without space", "#5 bolt\n\n#hashtag", "<p>#5 bolt</p><p>#hashtag</p>"},
		{"escaped hash", "\\## foo", "<p>## foo</p>"},
		{"closing sequence", "## foo ##\n###   bar    ###", "<h2>foo</h2><h3>bar</h3>"},
		{"setext under paragraph", "Foo\n---\nbar", "<h2>Foo</h2><p>bar</p>"},
		{
			"setext with emphasis",
			"Foo *bar*\n=========\n\nFoo *bar*\n---------",
			"<h1>Foo <em>bar</em></h1><h2>Foo <em>bar</em></h2>",
		},
		{"single dash underline", "Foo\n-", "<h2>Foo</h2>"},
		{"single dash underline in quote", "> Foo\n> -", "<blockquote><h2>Foo</h2></blockquote>"},
		{"single dash underline in item", "- Foo\n  -", "<ul><li><h2>Foo</h2></li></ul>"},
		{"multiline setext", "Foo\nbar\n===", "<h1>Foo\nbar</h1>"},
		{"underline alone", "===", "<p>===</p>"},
		{
			"indented code",
			"    a simple\n      indented code block",
			"<pre><code>a simple\n  indented code block</code></pre>",
		},
		{"indented line continues paragraph", "Foo\n    bar", "<p>Foo\nbar</p>"},
		{"code is escaped", "    <a/>\n    *hi*", "<pre><code>&lt;a/&gt;\n*hi*</code></pre>"},
		{"fence", "```\n<\n >\n```", "<pre><code>&lt;\n &gt;\n</code></pre>"},
		{"tilde fence", "~~~\naaa\n~~~", "<pre><code>aaa\n</code></pre>"},
		{"unclosed fence", "```\naaa", "<pre><code>aaa\n</code></pre>"},
		{
			"fence info",
			"```ruby\ndef foo(x)\n  return 3\nend\n```",
			"<pre><code class=\"language-ruby\">def foo(x)\n  return 3\nend\n</code></pre>",
		},
		{
			"quote interior",
			"> # Foo\n> bar\n> baz",
			"<blockquote><h1>Foo</h1><p>bar\nbaz</p></blockquote>",
		},
		{"lazy quote", "> foo\nbar", "<blockquote><p>foo\nbar</p></blockquote>"},
		{"separate quotes", "> foo\n\n> bar", "<blockquote><p>foo</p></blockquote><blockquote><p>bar</p></blockquote>"},
		{"bullet marker change", "- foo\n- bar\n+ baz", "<ul><li>foo</li><li>bar</li></ul><ul><li>baz</li></ul>"},
		{
			"ordered delimiter change",
			"1. foo\n2. bar\n3) baz",
			"<ol><li>foo</li><li>bar</li></ol><ol start=\"3\"><li>baz</li></ol>",
		},
		{"loose list", "- a\n\n- b", "<ul><li><p>a</p></li><li><p>b</p></li></ul>"},
		{"ordered needs one to interrupt", "text\n2. two", "<p>text\n2. two</p>"},
		{"hard break spaces", "foo  \nbaz", "<p>foo<br />baz</p>"},
		{"hard break backslash", "foo\\\nbaz", "<p>foo<br />baz</p>"},
		{"hard break inside emphasis", "*a\\\nb*", "<p><em>a<br />b</em></p>"},
		{"escaped stars", "\\*foo\\*", "<p>*foo*</p>"},
		{"escaped stars in heading", "# foo *bar* \\*baz\\*", "<h1>foo <em>bar</em> *baz*</h1>"},
		{"trailing spaces trimmed", "foo  ", "<p>foo</p>"},
		{"emphasis", "*foo bar*", "<p><em>foo bar</em></p>"},
		{"not emphasis", "a * foo bar*", "<p>a * foo bar*</p>"},
		{"intraword emphasis", "foo*bar*", "<p>foo<em>bar</em></p>"},
		{"entities", "&copy; &AElig; &#35; &#X22;", "<p>© Æ # \"</p>"},
		{"unknown entity", "&MadeUpEntity;", "<p>&MadeUpEntity;</p>"},
		{"link", "[foo]: /url \"title\"\n\n[foo]", "<p><a href=\"/url\" title=\"title\">foo</a></p>"},
		{"case insensitive label", "[FOO]: /url\n\n[Foo]", "<p><a href=\"/url\">FOO</a></p>"},
		{"first definition wins", "[foo]: /first\n[foo]: /second\n\n[foo]", "<p><a href=\"/first\">foo</a></p>"},
		{"reference before definition", "[foo]\n\n[foo]: /url", "<p>foo</p>"},
		{"unresolved reference", "[bar]", "<p>bar</p>"},
		{"unresolved reference is escaped", "[a<b]", "<p>a&lt;b</p>"},
		{"empty document", "", ""},
		{"blank document", "\n\n  \n", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mustExec(t, tc.src))
		})
	}
}

func TestThematicBreaksInOrder(t *testing.T) {
	for n := 1; n <= 5; n++ {
		src := strings.Repeat("***\n", n)
		assert.Equal(t, strings.Repeat("<hr />", n), mustExec(t, src))
	}
}

func TestParagraphLinesJoined(t *testing.T) {
	lines := []string{"  one", "two  x", "\tthree"}
	out := mustExec(t, strings.Join(lines, "\n"))
	assert.Equal(t, "<p>one\ntwo  x\nthree</p>", out)
}

func TestBackslashEscapeTable(t *testing.T) {
	const punct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	require.Len(t, punct, 32)
	entities := map[byte]string{'"': "&quot;", '&': "&amp;", '<': "&lt;", '>': "&gt;"}
	for i := 0; i < len(punct); i++ {
		c := punct[i]
		want := string(c)
		if e, ok := entities[c]; ok {
			want = e
		}
		assert.Equal(t, "<p>"+want+"</p>", mustExec(t, "\\"+string(c)), "escape of %q", c)
	}
	assert.Equal(t, "<p>\\A\\φ</p>", mustExec(t, "\\A\\φ"))
}

func TestLineEndingsAreNormalized(t *testing.T) {
	want := mustExec(t, "# a\n\nb\nc\n")
	assert.Equal(t, want, mustExec(t, "# a\r\n\r\nb\r\nc\r\n"))
	assert.Equal(t, want, mustExec(t, "# a\r\rb\rc"))
}

func TestExecOptions(t *testing.T) {
	src := "```go\nx\n```\n\n- a\n"
	assert.Equal(t, "<pre><code class=\"language-go\">x\n</code></pre>\n<ul>\n<li>a</li>\n</ul>\n",
		mustExec(t, src, WithNewlines(true)))
	assert.Equal(t, "<pre><code class=\"lang-go\">x\n</code></pre><ul><li>a</li></ul>",
		mustExec(t, src, WithLanguagePrefix("lang-")))
	assert.Equal(t, "<pre><code>x\n</code></pre><ul><li>a</li></ul>",
		mustExec(t, src, WithLanguagePrefix("")))
	assert.Equal(t, "<p>b</p>", mustExec(t, "---\nkey: v\n---\nb\n", WithFrontMatter(true)))
	assert.Equal(t, "<hr /><h2>key: v</h2><p>b</p>", mustExec(t, "---\nkey: v\n---\nb\n"))
}

func TestExecErrors(t *testing.T) {
	_, err := Exec("ok\nbad \xff line\n")
	var cerr *ClassificationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, 2, cerr.Line)
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Exec("a\x00b")
	assert.ErrorIs(t, err, ErrBinaryInput)

	_, err = Exec(strings.Repeat(">", MaxNestingDepth+4) + " deep\n")
	assert.ErrorIs(t, err, ErrNestingTooDeep)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 1, cerr.Line)

	_, err = Exec(strings.Repeat(">", MaxNestingDepth/2) + " fine\n")
	assert.NoError(t, err)
}

func TestExecIsSafeForConcurrentUse(t *testing.T) {
	src := "# Title\n\n> - *a*\n>   b\n\n    code\n"
	want := mustExec(t, src)
	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func() {
			out, _ := Exec(src)
			done <- out
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
