// Package services holds the assistant's external collaborators: the
// generative-text endpoint and the outgoing mail transport. Failures here
// are surfaced as inline error strings at the call site and never
// propagate further.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/chattyhq/chatty/types"
)

// BlogGenerator produces a short blog post from a fixed prompt.
type BlogGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// DefaultBlogPrompt is used when the config does not override it.
const DefaultBlogPrompt = "Write a 200-word blog post on a productivity topic."

// OllamaBlogger talks to an OpenAI-compatible completion endpoint, which
// is what a local Ollama daemon exposes under /v1.
type OllamaBlogger struct {
	client *openai.Client
	model  string
	prompt string
}

// NewOllamaBlogger builds a client for cfg. The request timeout guards the
// only real network call in the system.
func NewOllamaBlogger(cfg types.BlogConfig) *OllamaBlogger {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultBlogPrompt
	}

	return &OllamaBlogger{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		prompt: prompt,
	}
}

// Generate requests one completion and returns its text.
func (b *OllamaBlogger) Generate(ctx context.Context) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: b.prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate blog: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate blog: empty response from %s", b.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
