package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/history"
	"github.com/comigor/tradutor-go/internal/logger"
	"github.com/comigor/tradutor-go/internal/translate"
)

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

type env struct {
	cfgPath string
	dbPath  string
	clip    *fakeClipboard
}

// newEnv writes a config pointing both providers at fake endpoints and
// history at a sqlite file in a temp dir, so state survives between commands.
func newEnv(t *testing.T, primaryStatus int) *env {
	t.Helper()
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(primaryStatus)
		_, _ = w.Write([]byte(`{"translatedText":"Bom dia"}`))
	}))
	t.Cleanup(primary.Close)
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(secondary.Close)

	dir := t.TempDir()
	e := &env{
		cfgPath: filepath.Join(dir, "config.yaml"),
		dbPath:  filepath.Join(dir, "history.db"),
		clip:    &fakeClipboard{},
	}
	cfg := fmt.Sprintf(`log:
  level: error
translate:
  libretranslate:
    url: %s/translate
  mymemory:
    url: %s/get
storage:
  driver: sqlite
  path: %s
`, primary.URL, secondary.URL, e.dbPath)
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(cfg), 0o600))
	return e
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(Options{Version: "test", Clipboard: e.clip})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *env) entries(t *testing.T) []history.Entry {
	t.Helper()
	backend, err := history.NewSQLiteBackend(e.dbPath)
	require.NoError(t, err)
	defer backend.Close()
	store := history.NewStore(backend, history.DefaultKey)
	defer store.Close()
	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	return entries
}

func TestTranslateCommand(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	out, _, err := e.run(t, "", "translate", "Good", "morning")
	require.NoError(t, err)
	require.Equal(t, "Bom dia\n", out)

	entries := e.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, "Good morning", entries[0].Src)
	require.Equal(t, "Bom dia", entries[0].Dst)
}

func TestTranslateCommand_LogsStayOffStdout(t *testing.T) {
	e := newEnv(t, http.StatusOK)
	cfg, err := os.ReadFile(e.cfgPath)
	require.NoError(t, err)
	cfg = []byte(strings.Replace(string(cfg), "level: error", "level: info", 1))
	require.NoError(t, os.WriteFile(e.cfgPath, cfg, 0o600))
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel("info")
	})

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	out, errOut, runErr := e.run(t, "", "translate", "Good morning")
	os.Stdout = stdout
	require.NoError(t, w.Close())
	leaked, err := io.ReadAll(r)
	require.NoError(t, err)

	require.NoError(t, runErr)
	require.Equal(t, "Bom dia\n", out)
	require.Empty(t, string(leaked))
	require.Contains(t, errOut, `"msg":"translation completed"`)
	require.Contains(t, errOut, `"msg":"sqlite history DB initialized"`)
}

func TestTranslateCommand_ReadsStdin(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	out, _, err := e.run(t, "  Good morning\n", "translate")
	require.NoError(t, err)
	require.Equal(t, "Bom dia\n", out)
	require.Equal(t, "Good morning", e.entries(t)[0].Src)
}

func TestTranslateCommand_Fallback(t *testing.T) {
	e := newEnv(t, http.StatusInternalServerError)

	out, _, err := e.run(t, "", "translate", "Good morning")
	require.NoError(t, err)
	require.Equal(t, translate.WarningMarker+"\n\nGood morning\n", out)
}

func TestTranslateCommand_Copy(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	_, errOut, err := e.run(t, "", "translate", "--copy", "Good morning")
	require.NoError(t, err)
	require.Equal(t, []string{"Bom dia"}, e.clip.copied)
	require.Contains(t, errOut, "Copied to clipboard.")

	e.clip.err = ErrNoClipboard
	out, errOut, err := e.run(t, "", "translate", "-c", "Good morning")
	require.NoError(t, err)
	require.Equal(t, "Bom dia\n", out)
	require.Contains(t, errOut, "Could not copy to clipboard")
}

func TestTranslateCommand_Validation(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	_, _, err := e.run(t, "   \n", "translate")
	require.ErrorIs(t, err, app.ErrEmptyText)
	require.Equal(t, "digite um texto para traduzir", ErrorMessage(err))

	_, _, err = e.run(t, "", "translate", strings.Repeat("a", app.CharLimit+1))
	require.ErrorIs(t, err, app.ErrTooLong)

	require.Empty(t, e.entries(t))
}

func TestHistoryListAndShow(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	out, _, err := e.run(t, "", "history", "list")
	require.NoError(t, err)
	require.Equal(t, msgNoHistory+"\n", out)

	_, _, err = e.run(t, "", "translate", "Good morning")
	require.NoError(t, err)
	_, _, err = e.run(t, "", "translate", "Have a nice day")
	require.NoError(t, err)

	out, _, err = e.run(t, "", "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "SOURCE")
	require.Contains(t, lines[1], "Have a nice day")
	require.Contains(t, lines[2], "Good morning")

	out, _, err = e.run(t, "", "history", "list", "-q", "MORNING")
	require.NoError(t, err)
	require.NotContains(t, out, "Have a nice day")
	require.Contains(t, out, "Good morning")

	out, _, err = e.run(t, "", "history", "list", "--limit", "1")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	id := e.entries(t)[1].ID
	out, _, err = e.run(t, "", "history", "show", id)
	require.NoError(t, err)
	require.Contains(t, out, "ID:   "+id)
	require.Contains(t, out, "Good morning\n\nBom dia\n")

	_, _, err = e.run(t, "", "history", "show", "missing")
	require.ErrorIs(t, err, app.ErrEntryNotFound)
}

func TestHistoryClear(t *testing.T) {
	e := newEnv(t, http.StatusOK)
	_, _, err := e.run(t, "", "translate", "Good morning")
	require.NoError(t, err)

	out, _, err := e.run(t, "n\n", "history", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Erase all 1 translations?")
	require.Contains(t, out, "Cancelled.")
	require.Len(t, e.entries(t), 1)

	out, _, err = e.run(t, "", "history", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Cancelled.")
	require.Len(t, e.entries(t), 1)

	out, _, err = e.run(t, "yes\n", "history", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "History cleared.")
	require.Empty(t, e.entries(t))

	_, _, err = e.run(t, "", "translate", "Good morning")
	require.NoError(t, err)
	out, _, err = e.run(t, "", "history", "clear", "--yes")
	require.NoError(t, err)
	require.NotContains(t, out, "[y/N]")
	require.Empty(t, e.entries(t))
}

func TestRootCommand_Flags(t *testing.T) {
	root := NewRootCmd(Options{Version: "test"})
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
	require.NotNil(t, root.PersistentFlags().Lookup("log-level"))

	for _, path := range [][]string{
		{"translate"},
		{"history", "list"},
		{"history", "show"},
		{"history", "clear"},
		{"serve"},
		{"mcp"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}

	serve, _, _ := root.Find([]string{"serve"})
	require.NotNil(t, serve.Flags().Lookup("host"))
	require.NotNil(t, serve.Flags().Lookup("port"))
}

func TestRootCommand_MissingConfig(t *testing.T) {
	root := NewRootCmd(Options{Version: "test", Clipboard: &fakeClipboard{}})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "history", "list"})
	require.Error(t, root.Execute())
}

func TestPrompter(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		" y ":    true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"sure\n": false,
	} {
		var out bytes.Buffer
		ok, err := NewPrompter(strings.NewReader(input), &out).Confirm("Proceed?")
		require.NoError(t, err)
		require.Equal(t, want, ok, "input %q", input)
		require.Equal(t, "Proceed? [y/N]: ", out.String())
	}
}

func TestPreview(t *testing.T) {
	require.Equal(t, "a b", preview("a\n  b"))
	long := strings.Repeat("é", previewWidth+5)
	got := []rune(preview(long))
	require.Len(t, got, previewWidth)
	require.Equal(t, '…', got[len(got)-1])
}
