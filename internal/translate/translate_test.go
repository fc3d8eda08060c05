package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DengYangGong/YT-AISpider/internal/config"
)

func TestGoogleTranslate(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		if r.Header.Get("User-Agent") == "" {
			t.Error("request has no User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["你好，","Hello, ",null,null,10],["世界","world",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	g := NewGoogle(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	got, err := g.Translate(context.Background(), "Hello, world", "en", "zh-CN")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if got != "你好，世界" {
		t.Errorf("Translate() = %q, want %q", got, "你好，世界")
	}

	q := <-queries
	if q.Get("client") != "gtx" || q.Get("sl") != "en" || q.Get("tl") != "zh-CN" || q.Get("q") != "Hello, world" {
		t.Errorf("unexpected query: %v", q)
	}
}

func TestGoogleTranslateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down"},
		{"not json", http.StatusOK, "<html>"},
		{"empty payload", http.StatusOK, "[]"},
		{"no segments", http.StatusOK, `[[],null,"en"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGoogle(WithEndpoint(srv.URL)).Translate(context.Background(), "hi", "en", "de")
			if !errors.Is(err, ErrTranslationFailure) {
				t.Errorf("Translate() error = %v, want ErrTranslationFailure", err)
			}
		})
	}
}

func TestOpenAITranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 || req.Messages[1].Content != "Good morning" {
			t.Errorf("unexpected request: %+v", req)
		}
		if !strings.Contains(req.Messages[0].Content, "from en to ja") {
			t.Errorf("system prompt = %q", req.Messages[0].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  おはよう  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(config.OpenAISettings{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "test-model"})
	if err != nil {
		t.Fatalf("NewOpenAI() error: %v", err)
	}
	got, err := o.Translate(context.Background(), "Good morning", "en", "ja")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if got != "おはよう" {
		t.Errorf("Translate() = %q, want %q", got, "おはよう")
	}
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(config.OpenAISettings{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Translate(context.Background(), "x", "en", "fr"); !errors.Is(err, ErrTranslationFailure) {
		t.Errorf("Translate() error = %v, want ErrTranslationFailure", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(config.OpenAISettings{}); err == nil {
		t.Error("NewOpenAI() without key = nil error")
	}
}

func TestNew(t *testing.T) {
	settings := config.Default().Translation
	tr, err := New(settings)
	if err != nil {
		t.Fatalf("New(google) error: %v", err)
	}
	if _, ok := tr.(*Google); !ok {
		t.Errorf("New(google) = %T", tr)
	}

	settings.Provider = "bogus"
	if _, err := New(settings); err == nil {
		t.Error("New(bogus) = nil error")
	}
}

func TestSafe(t *testing.T) {
	var calls atomic.Int32
	fail := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls.Add(1)
		return "", ErrTranslationFailure
	})

	out, ok := Safe(context.Background(), fail, "keep me", "en", "zh-CN", nil)
	if out != "keep me" || ok {
		t.Errorf("Safe(failing) = %q, %v; want source text, false", out, ok)
	}

	out, ok = Safe(context.Background(), fail, " \t", "en", "zh-CN", nil)
	if out != " \t" || !ok {
		t.Errorf("Safe(blank) = %q, %v", out, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("translator called %d times, want 1", calls.Load())
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("字", 80)
	if got := preview(long); got != strings.Repeat("字", 50)+"..." {
		t.Errorf("preview() = %q", got)
	}
	if got := preview("short"); got != "short" {
		t.Errorf("preview(short) = %q", got)
	}
}

func TestStoreAndCached(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "sub", "cache.db"))
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	key := Key{Provider: "google", Source: "en", Target: "zh-CN", Text: "hello"}
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get(empty) = ok=%v err=%v", ok, err)
	}

	var calls atomic.Int32
	remote := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls.Add(1)
		if text == "bad" {
			return "", ErrTranslationFailure
		}
		return "你好", nil
	})
	cached := NewCached(remote, store, "google", nil)

	for range 3 {
		got, err := cached.Translate(ctx, "hello", "en", "zh-CN")
		if err != nil || got != "你好" {
			t.Fatalf("Translate() = %q, %v", got, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("remote calls = %d, want 1", calls.Load())
	}

	if _, err := cached.Translate(ctx, "bad", "en", "zh-CN"); !errors.Is(err, ErrTranslationFailure) {
		t.Errorf("Translate(bad) error = %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1 (failures are not cached)", n)
	}

	// A different target language is a different entry.
	if _, err := cached.Translate(ctx, "hello", "en", "ja"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("remote calls = %d, want 3", calls.Load())
	}

	if err := store.Put(ctx, key, "您好"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if got, ok, _ := store.Get(ctx, key); !ok || got != "您好" {
		t.Errorf("Get() after replace = %q, %v", got, ok)
	}
}
