package translate

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/comigor/tradutor-go/internal/config"
)

// LibreTranslate calls a LibreTranslate-compatible POST /translate endpoint.
type LibreTranslate struct {
	cfg    config.LibreTranslateConfig
	client *http.Client
}

// NewLibreTranslate creates a new LibreTranslate client
func NewLibreTranslate(cfg config.LibreTranslateConfig, client *http.Client) *LibreTranslate {
	if client == nil {
		client = &http.Client{}
	}
	return &LibreTranslate{cfg: cfg, client: client}
}

// Name implements Translator.
func (l *LibreTranslate) Name() string { return "libretranslate" }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate implements Translator.
func (l *LibreTranslate) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: SourceLang,
		Target: TargetLang,
		Format: "text",
		APIKey: l.cfg.APIKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	data, err := readBody(l.Name(), resp)
	if err != nil {
		return "", err
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", l.Name(), err)
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("%s: %w", l.Name(), ErrNoTranslation)
	}
	return out.TranslatedText, nil
}
