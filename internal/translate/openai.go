package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/tradutor-go/internal/llm"
)

const openAISystemPrompt = "You translate English text to Brazilian Portuguese. Reply with the translation only, preserving line breaks, with no quotes or commentary."

// OpenAI translates with a chat completion model.
type OpenAI struct {
	client llm.Client
	model  string
}

// NewOpenAI creates a chat-completion translator.
func NewOpenAI(client llm.Client, model string) *OpenAI {
	return &OpenAI{client: client, model: model}
}

// Name implements Translator.
func (o *OpenAI) Name() string { return "openai" }

// Translate implements Translator.
func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", o.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", o.Name(), ErrNoTranslation)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%s: %w", o.Name(), ErrNoTranslation)
	}
	return out, nil
}
