package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/comigor/tradutor-go/internal/config"
)

// MyMemory calls a MyMemory-compatible GET /get endpoint.
type MyMemory struct {
	cfg    config.MyMemoryConfig
	client *http.Client
}

// NewMyMemory creates a new MyMemory client
func NewMyMemory(cfg config.MyMemoryConfig, client *http.Client) *MyMemory {
	if client == nil {
		client = &http.Client{}
	}
	return &MyMemory{cfg: cfg, client: client}
}

// Name implements Translator.
func (m *MyMemory) Name() string { return "mymemory" }

// Translate implements Translator.
func (m *MyMemory) Translate(ctx context.Context, text string) (string, error) {
	u, err := url.Parse(m.cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", text)
	q.Set("langpair", SourceLang+"|"+TargetLang)
	if m.cfg.Email != "" {
		q.Set("de", m.cfg.Email)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	data, err := readBody(m.Name(), resp)
	if err != nil {
		return "", err
	}

	var out struct {
		ResponseData *struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		// MyMemory sends this as a number or as a string.
		ResponseStatus any `json:"responseStatus"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", m.Name(), err)
	}
	if code, ok := statusCode(out.ResponseStatus); ok && code != http.StatusOK {
		return "", &StatusError{Provider: m.Name(), Code: code}
	}
	if out.ResponseData == nil || out.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("%s: %w", m.Name(), ErrNoTranslation)
	}
	return out.ResponseData.TranslatedText, nil
}

func statusCode(v any) (int, bool) {
	switch s := v.(type) {
	case float64:
		return int(s), true
	case string:
		n, err := strconv.Atoi(s)
		return n, err == nil
	default:
		return 0, false
	}
}
