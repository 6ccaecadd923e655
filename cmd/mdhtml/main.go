package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"pkt.systems/mdhtml"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/mdhtml")
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string
	cmd := &cobra.Command{
		Use:   "mdhtml [flags] [inputs...]",
		Short: "Convert Markdown to HTML",
		Long: `Convert CommonMark-style Markdown to HTML.

Inputs may be files, file:// URLs or http(s):// URLs and are concatenated in
order. If no input is provided, Markdown is read from stdin.`,
		Version:       version.Current(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd, args, cfg)
		},
	}
	cmd.SetVersionTemplate(version.Module() + " {{.Version}}\n")

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&configFile, "config", "c", "", "Config file (default searches mdhtml.yaml in ~/.config/mdhtml, ~ and .)")
	flags.StringP("output", "o", "", "Output file instead of stdout")
	flags.BoolP("newlines", "n", false, "Write a newline after every block element")
	flags.String("language-prefix", "language-", "Class prefix for fenced code languages (empty disables)")
	flags.Bool("front-matter", true, "Strip leading YAML/TOML/JSON front matter")
	flags.Bool("dump-tree", false, "Print the parsed block tree instead of HTML")
	flags.IntP("width", "w", 0, "Wrap width for --dump-tree (0 uses terminal width if available)")
	flags.Bool("stats", false, "Print conversion statistics to stderr")

	bindFlags(v, flags)
	return cmd
}

// bindFlags maps config keys to their flags.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, name := range map[string]string{
		"output":          "output",
		"newlines":        "newlines",
		"language_prefix": "language-prefix",
		"front_matter":    "front-matter",
		"dump_tree":       "dump-tree",
		"width":           "width",
		"stats":           "stats",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func run(cmd *cobra.Command, args []string, cfg config) error {
	reader, closer, err := openInputs(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	writer, closeOut, err := resolveOutput(cfg.Output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	if cfg.DumpTree {
		if cfg.FrontMatter {
			src = mdhtml.StripFrontMatter(src)
		}
		if err := mdhtml.ValidateInput(src); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		root, err := mdhtml.Parse(string(src))
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		return mdhtml.DumpTree(writer, root, resolveWidth(cfg.Width, writer))
	}

	counter := &countingWriter{w: writer}
	started := time.Now()
	if err := mdhtml.Translate(mdhtml.TranslateRequest{
		Reader:  bytes.NewReader(src),
		Writer:  counter,
		Options: cfg.renderOptions(),
	}); err != nil {
		return err
	}
	if cfg.Stats {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s of Markdown (%s lines) to %s of HTML in %s\n",
			humanize.Bytes(uint64(len(src))),
			humanize.Comma(int64(bytes.Count(src, []byte("\n")))),
			humanize.Bytes(uint64(counter.n)),
			time.Since(started).Round(time.Microsecond))
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if cw, err := strconv.Atoi(value); err == nil && cw > 0 {
			return cw
		}
	}
	return defaultWidth
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	multi := &multiInputReader{sources: sources}
	return multi, multi, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
