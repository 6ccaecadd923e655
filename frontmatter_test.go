package mdhtml

import (
	"strings"
	"testing"
)

func TestExecOmitsFrontMatterAtDocumentStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		contains []string
		omits    []string
	}{
		{
			name:     "yaml",
			src:      "---\ntitle: Post\ndate: 2026-02-09\n---\n\n# Hello\n\nBody.\n",
			contains: []string{"<h1>Hello</h1>", "<p>Body.</p>"},
			omits:    []string{"title: Post", "date: 2026-02-09"},
		},
		{
			name:     "toml",
			src:      "+++\ntitle = \"Post\"\n+++\n\n# Hello\n",
			contains: []string{"<h1>Hello</h1>"},
			omits:    []string{"title = "},
		},
		{
			name:     "json",
			src:      ";;;\n{\"title\": \"Post\"}\n;;;\n\n# Hello\n",
			contains: []string{"<h1>Hello</h1>"},
			omits:    []string{"Post"},
		},
		{
			name:     "crlf and bom",
			src:      "\xef\xbb\xbf---\r\ntitle: Post\r\n---\r\nBody\r\n",
			contains: []string{"<p>Body</p>"},
			omits:    []string{"title"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := mustExec(t, tc.src, WithFrontMatter(true))
			for _, want := range tc.contains {
				if !strings.Contains(out, want) {
					t.Fatalf("missing %q in output: %q", want, out)
				}
			}
			for _, bad := range tc.omits {
				if strings.Contains(out, bad) {
					t.Fatalf("unexpected %q in output: %q", bad, out)
				}
			}
		})
	}
}

func TestFrontMatterIsOnlyCheckedAtStart(t *testing.T) {
	t.Parallel()
	src := "# Intro\n\n+++\ntitle = \"Keep me\"\n+++\n\nTail\n"
	if got := StripFrontMatter([]byte(src)); string(got) != src {
		t.Fatalf("front matter after the start must be kept: %q", got)
	}
}

func TestUnclosedFrontMatterIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Post\n\n# Hello\n"
	if got := StripFrontMatter([]byte(src)); string(got) != src {
		t.Fatalf("unclosed front matter must be kept: %q", got)
	}
}

func TestStartDelimiterWithoutMetadataIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\n# Keep\n---\n\nTail\n"
	out := mustExec(t, src, WithFrontMatter(true))
	for _, want := range []string{"<h1>Keep</h1>", "<p>Tail</p>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestStripFrontMatterStopsAfterFirstBlock(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Skip\n---\n\nBody\n\n---\nkeep: yes\n---\n"
	got := string(StripFrontMatter([]byte(src)))
	if got != "\nBody\n\n---\nkeep: yes\n---\n" {
		t.Fatalf("unexpected remainder: %q", got)
	}
}
