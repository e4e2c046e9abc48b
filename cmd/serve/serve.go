// Package serve runs the HTTP API
package serve

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/root"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/api"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workbook import/export API",
	Long: `Serve POST /api/excel/import, GET /api/excel/export and
GET /api/excel/export.csv. The caller's user id is taken from the configured
header (X-User-ID by default).`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&address, "addr", "a", "", "Listen address (overrides server.address)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	cfg := root.GetConfig().Server
	if address != "" {
		cfg.Address = address
	}

	srv := api.New(root.GetContainer().GetEngine(), cfg, root.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(cfg.Address)
	})
	g.Go(func() error {
		<-gctx.Done()
		root.Log.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	root.Log.Info("HTTP server stopped", logging.F(logging.FieldStatus, "stopped"))
	return nil
}
