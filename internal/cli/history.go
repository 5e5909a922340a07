package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/history"
)

const (
	defaultHistoryLimit = 20
	previewWidth        = 40
	msgNoHistory        = "No translations recorded yet."
)

func newHistoryCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear past translations",
	}
	cmd.AddCommand(
		newHistoryListCommand(rt),
		newHistoryShowCommand(rt),
		newHistoryClearCommand(rt),
	)
	return cmd
}

func newHistoryListCommand(rt *session) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent translations, optionally filtered",
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			entries := c.Service.SearchHistory(query)
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return renderEntries(cmd.OutOrStdout(), entries)
		}),
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show entries containing this text")
	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Max entries to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one translation in full",
		Args:  cobra.ExactArgs(1),
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			e, err := c.Service.Entry(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:   %s\nWhen: %s\n\n%s\n\n%s\n", e.ID, e.Time().Format(time.RFC3339), e.Src, e.Dst)
			return nil
		}),
	}
}

func newHistoryClearCommand(rt *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase all translations (asks for confirmation)",
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			confirmed := yes
			if !confirmed {
				prompt := fmt.Sprintf("Erase all %d translations? This cannot be undone.", c.Store.Len())
				var err error
				if confirmed, err = NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(prompt); err != nil {
					return err
				}
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := c.Service.ClearHistory(true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func renderEntries(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, msgNoHistory)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tRESULT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.ID,
			e.Time().Format("2006-01-02 15:04"),
			preview(e.Src),
			preview(e.Dst),
		)
	}
	return tw.Flush()
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewWidth {
		return s
	}
	return string(r[:previewWidth-1]) + "…"
}
