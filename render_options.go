package mdhtml

// RenderOption configures conversion and rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	newlines         bool
	languagePrefix   string
	stripFrontMatter bool
}

const defaultLanguagePrefix = "language-"

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{languagePrefix: defaultLanguagePrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithNewlines writes a newline after every block element.
func WithNewlines(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.newlines = enabled
	}
}

// WithLanguagePrefix sets the class prefix for the language of a fenced
// code block. An empty prefix drops the class attribute.
func WithLanguagePrefix(prefix string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.languagePrefix = prefix
	}
}

// WithFrontMatter strips a leading YAML, TOML or JSON front matter block
// before conversion.
func WithFrontMatter(strip bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.stripFrontMatter = strip
	}
}
