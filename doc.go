// Package mdhtml converts CommonMark-style Markdown to HTML.
//
// Conversion runs in four stages. A line classifier tags every line, or run
// of lines, with its block kind. A tree assembler folds that token stream
// into a block tree, applying lazy continuation, setext heading retyping and
// blank-line closing rules as it goes. An inline processor then resolves
// character references, backslash escapes, emphasis and hard line breaks in
// paragraphs and headings, and a renderer writes the tree as HTML.
//
// Each conversion owns all of its state, so any number of conversions may
// run concurrently.
//
// Example:
//
//	html, err := mdhtml.Exec("# Hello\n\n*Markdown* in, HTML out.\n")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(html) // <h1>Hello</h1><p><em>Markdown</em> in, HTML out.</p>
//
// Translate and TranslateURL read from an io.Reader or an HTTP(S) URL
// instead, and RenderOptions such as WithNewlines adjust the output.
package mdhtml
