package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/logger"
	"github.com/comigor/tradutor-go/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		RunE: rt.withApp(func(cmd *cobra.Command, args []string, c *app.Container) error {
			srv := &http.Server{
				Addr:              c.Config.Server.Addr(),
				Handler:           server.New(c.Service),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.L.Info("starting server", "address", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				logger.L.Info("shutting down server")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		}),
	}

	cmd.Flags().String("host", "", "Listen host (default from config)")
	cmd.Flags().String("port", "", "Listen port (default from config)")
	_ = rt.v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = rt.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}
