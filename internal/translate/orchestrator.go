package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/comigor/tradutor-go/internal/config"
	"github.com/comigor/tradutor-go/internal/llm"
	"github.com/comigor/tradutor-go/internal/logger"
)

// Translator is one step of the chain.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Orchestrator tries each translator in order and stops at the first success.
// It holds no mutable state and may be used concurrently.
type Orchestrator struct {
	chain []Translator
}

// NewOrchestrator builds an orchestrator over chain.
func NewOrchestrator(chain ...Translator) *Orchestrator {
	return &Orchestrator{chain: chain}
}

// Providers returns the chain's names in order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.chain))
	for i, t := range o.chain {
		names[i] = t.Name()
	}
	return names
}

// Translate never fails: when every step fails the original text comes back
// as a FallbackOriginal result. Each step makes exactly one attempt.
func (o *Orchestrator) Translate(ctx context.Context, text string) Result {
	for _, t := range o.chain {
		out, err := t.Translate(ctx, text)
		if err == nil {
			logger.L.Debug("translation succeeded", "provider", t.Name())
			return Result{Kind: Translated, Text: out, Provider: t.Name()}
		}
		logger.L.Warn("translator failed; trying next", "provider", t.Name(), "error", err)
	}
	logger.L.Warn("all translators failed; returning original text", "providers", len(o.chain))
	return Result{Kind: FallbackOriginal, Text: text}
}

// NewChain builds translators for cfg.Chain in order.
func NewChain(cfg config.TranslateConfig) ([]Translator, error) {
	if len(cfg.Chain) == 0 {
		return nil, fmt.Errorf("translator chain is empty")
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	chain := make([]Translator, 0, len(cfg.Chain))
	for _, name := range cfg.Chain {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "libretranslate":
			chain = append(chain, NewLibreTranslate(cfg.LibreTranslate, httpClient))
		case "mymemory":
			chain = append(chain, NewMyMemory(cfg.MyMemory, httpClient))
		case "openai":
			chain = append(chain, NewOpenAI(llm.NewClient(cfg.OpenAI, httpClient), cfg.OpenAI.Model))
		default:
			return nil, fmt.Errorf("unknown translator %q", name)
		}
	}
	return chain, nil
}
