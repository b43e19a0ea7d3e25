package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chattyhq/chatty/types"
)

func stubServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testBlogConfig(endpoint string) types.BlogConfig {
	return types.BlogConfig{
		Enabled:  true,
		Endpoint: endpoint,
		Model:    "llama3",
		APIKey:   "ollama",
		Timeout:  5 * time.Second,
	}
}

func TestGenerateReturnsTrimmedContent(t *testing.T) {
	srv := stubServer(t, "  A post about focus.\n", http.StatusOK)
	b := NewOllamaBlogger(testBlogConfig(srv.URL))

	got, err := b.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "A post about focus." {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerateSurfacesServerError(t *testing.T) {
	srv := stubServer(t, "", http.StatusInternalServerError)
	b := NewOllamaBlogger(testBlogConfig(srv.URL))

	if _, err := b.Generate(context.Background()); err == nil {
		t.Fatal("Generate() should fail on a 500")
	}
}

func TestGenerateHonorsContext(t *testing.T) {
	srv := stubServer(t, "late", http.StatusOK)
	b := NewOllamaBlogger(testBlogConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Generate(ctx); err == nil {
		t.Fatal("Generate() should fail with a canceled context")
	}
}

func TestDefaultPromptApplied(t *testing.T) {
	b := NewOllamaBlogger(testBlogConfig("http://localhost:11434/v1"))
	if b.prompt != DefaultBlogPrompt {
		t.Errorf("prompt = %q, want default", b.prompt)
	}

	cfg := testBlogConfig("http://localhost:11434/v1")
	cfg.Prompt = "Write about tea."
	if NewOllamaBlogger(cfg).prompt != "Write about tea." {
		t.Errorf("config prompt not honored")
	}
}
