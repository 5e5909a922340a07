package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/logger"
)

func newTranslateCommand(rt *session) *cobra.Command {
	var copyResult bool

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate English text to Portuguese (reads stdin when no text is given)",
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				var err error
				if text, err = readInput(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			out, err := c.Service.Translate(cmd.Context(), text)
			if err != nil {
				return err
			}

			rendered := out.Result.String()
			fmt.Fprintln(cmd.OutOrStdout(), rendered)

			if copyResult {
				if err := rt.opts.Clipboard.Copy(rendered); err != nil {
					logger.L.Warn("clipboard copy failed", "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not copy to clipboard: %v\n", err)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "Copy the result to the clipboard")
	return cmd
}
