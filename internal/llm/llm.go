// Package llm builds the chat-completion client used by the openai translator.
package llm

import (
	"context"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/tradutor-go/internal/config"
)

// Client is the part of openai.Client the translator calls. Tests mock it.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ Client = (*openai.Client)(nil)

// NewClient returns a go-openai client for cfg. A nil httpClient keeps the
// library default; otherwise requests share its timeout with the other
// translators.
func NewClient(cfg config.OpenAIConfig, httpClient *http.Client) *openai.Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(oc)
}
