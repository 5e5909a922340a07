package tools

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/history"
)

// Register adds every translator tool backed by svc to m.
func Register(m *ToolManager, svc *app.Service) error {
	for _, t := range []Tool{
		&TranslateTool{svc: svc},
		&HistorySearchTool{svc: svc},
		&HistoryClearTool{svc: svc},
	} {
		if err := m.RegisterTool(t); err != nil {
			return err
		}
	}
	return nil
}

// TranslateTool translates English text to Portuguese and records it.
type TranslateTool struct {
	svc *app.Service
}

// Name returns the name of the tool
func (t *TranslateTool) Name() string { return "translate" }

// Description returns the description of the tool
func (t *TranslateTool) Description() string {
	return fmt.Sprintf("Translates English text (up to %d characters) to Portuguese. If every translation service fails, the original text is returned after a warning line.", app.CharLimit)
}

// Params returns the argument schema
func (t *TranslateTool) Params() []Param {
	return []Param{{Name: "text", Type: ParamString, Description: "English text to translate", Required: true}}
}

// Run runs the tool
func (t *TranslateTool) Run(ctx context.Context, args map[string]any) (string, error) {
	text, _ := args["text"].(string)
	out, err := t.svc.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	return out.Result.String(), nil
}

// HistorySearchTool lists past translations matching a query.
type HistorySearchTool struct {
	svc *app.Service
}

// Name returns the name of the tool
func (t *HistorySearchTool) Name() string { return "history_search" }

// Description returns the description of the tool
func (t *HistorySearchTool) Description() string {
	return "Searches past translations (case-insensitive, source or result). An empty query lists everything, newest first."
}

// Params returns the argument schema
func (t *HistorySearchTool) Params() []Param {
	return []Param{
		{Name: "query", Type: ParamString, Description: "Substring to look for"},
		{Name: "limit", Type: ParamNumber, Description: "Maximum number of entries to return"},
	}
}

// Run executes the search and returns a JSON array of entries
func (t *HistorySearchTool) Run(_ context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	entries := t.svc.SearchHistory(query)
	if limit, ok := args["limit"].(float64); ok && limit >= 1 && limit < float64(len(entries)) {
		entries = entries[:int(limit)]
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// HistoryClearTool erases the history; the caller must pass confirm=true.
type HistoryClearTool struct {
	svc *app.Service
}

// Name returns the name of the tool
func (t *HistoryClearTool) Name() string { return "history_clear" }

// Description returns the description of the tool
func (t *HistoryClearTool) Description() string {
	return "Permanently erases all translation history. Ask the user first and pass confirm=true."
}

// Params returns the argument schema
func (t *HistoryClearTool) Params() []Param {
	return []Param{{Name: "confirm", Type: ParamBoolean, Description: "Must be true; the action cannot be undone", Required: true}}
}

// Run runs the tool
func (t *HistoryClearTool) Run(_ context.Context, args map[string]any) (string, error) {
	confirmed, _ := args["confirm"].(bool)
	if err := t.svc.ClearHistory(confirmed); err != nil {
		return "", err
	}
	return "History cleared.", nil
}
