package mdhtml

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPTranslateRequest configures TranslateURL.
type HTTPTranslateRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Options []RenderOption
}

// TranslateURL fetches Markdown over HTTP(S) and writes its HTML.
func TranslateURL(ctx context.Context, req HTTPTranslateRequest) error {
	if req.URL == "" {
		return fmt.Errorf("translate http: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("translate http: Writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("translate http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return fmt.Errorf("translate http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	httpReq.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("translate http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("translate http: status %s", resp.Status)
	}
	return Translate(TranslateRequest{
		Reader:  resp.Body,
		Writer:  req.Writer,
		Options: req.Options,
	})
}
