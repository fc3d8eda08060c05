package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleEndpoint = "https://translate.googleapis.com/translate_a/single"
	googleTimeout  = 30 * time.Second
	maxErrorBody   = 512
)

// Google calls the public Google Translate web endpoint.
type Google struct {
	endpoint string
	client   *http.Client
}

// GoogleOption customizes a Google translator.
type GoogleOption func(*Google)

// WithEndpoint overrides the translate_a/single URL.
func WithEndpoint(endpoint string) GoogleOption {
	return func(g *Google) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) {
		if client != nil {
			g.client = client
		}
	}
}

// NewGoogle returns a Google translator.
func NewGoogle(opts ...GoogleOption) *Google {
	g := &Google{
		endpoint: googleEndpoint,
		client:   &http.Client{Timeout: googleTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Translate implements Translator.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for k, vals := range randomHeaders() {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: HTTP request: %w", ErrTranslationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: google returned status %d: %s",
			ErrTranslationFailure, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrTranslationFailure, err)
	}
	translated, err := joinSegments(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailure, err)
	}
	return translated, nil
}

// joinSegments concatenates the translated halves of the sentence pairs in
// the first element of a translate_a/single response.
func joinSegments(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}
	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response contained no translation")
	}
	return b.String(), nil
}
