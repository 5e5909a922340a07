// Package cli provides the cobra command tree: one-shot translation, history
// management, the HTTP API and the MCP stdio server.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/config"
	"github.com/comigor/tradutor-go/internal/logger"
)

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// Options holds CLI-level dependencies that tests may replace.
type Options struct {
	Version   string
	Clipboard Clipboard
}

type session struct {
	opts      Options
	v         *viper.Viper
	cfgFile   string
	container *app.Container
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Clipboard == nil {
		opts.Clipboard = NewClipboard()
	}
	rt := &session{opts: opts, v: viper.New()}

	root := &cobra.Command{
		Use:   "tradutor",
		Short: "English to Portuguese translator with searchable history",
		Long: `tradutor translates English text to Portuguese using LibreTranslate, falling
back to MyMemory, and keeps the last 200 translations in a local history.

Examples:
  tradutor translate "Good morning"
  echo "Good night" | tradutor translate
  tradutor history list --query morning
  tradutor serve --port 8080`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries results only
			logger.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "config file (default is ./config.yaml or $CONFIG_PATH)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = rt.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newTranslateCommand(rt),
		newHistoryCommand(rt),
		newServeCommand(rt),
		newMCPCommand(rt),
	)
	return root
}

// withApp builds the application for the duration of one command and closes
// it afterwards, flushing pending history writes.
func (rt *session) withApp(fn func(cmd *cobra.Command, args []string, c *app.Container) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		c, err := rt.build(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rt.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, c)
	}
}

// build loads configuration and constructs the application.
func (rt *session) build(cmd *cobra.Command) (*app.Container, error) {
	if rt.container != nil {
		return rt.container, nil
	}
	path := rt.cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(rt.v, path)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.Log.Level)

	c, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	rt.container = c
	return c, nil
}

func (rt *session) close() error {
	if rt.container == nil {
		return nil
	}
	err := rt.container.Close()
	rt.container = nil
	return err
}

// ErrorMessage is what main prints for a failed command.
func ErrorMessage(err error) string {
	if errors.Is(err, app.ErrInvalidInput) {
		return app.UserMessage(err)
	}
	return err.Error()
}

func readInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
