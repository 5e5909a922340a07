package cli

import (
	"github.com/spf13/cobra"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/mcpserver"
	"github.com/comigor/tradutor-go/pkg/tools"
)

// newMCPCommand serves over stdio; logs already go to stderr via the root
// pre-run hook.
func newMCPCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve translate and history tools over MCP (stdio)",
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			m := tools.NewToolManager()
			if err := tools.Register(m, c.Service); err != nil {
				return err
			}
			return mcpserver.Serve(m, rt.opts.Version)
		}),
	}
}
