package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bptree"
	"bptree/internal/config"
	"bptree/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve in-memory indexes over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Server.Listen, _ = cmd.Flags().GetString("listen")
		}

		log, flush, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer flush()

		srv := newServer(cfg, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			errc <- srv.Listen(cfg.Server.Listen)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return <-errc
	},
}

// newServer builds the HTTP server described by cfg.
func newServer(cfg *config.Config, log bptree.Logger) *server.Server {
	return server.New(
		server.WithDefaultOrder(cfg.Order),
		server.WithRangeCacheSize(cfg.Server.RangeCacheSize),
		server.WithMaxIndexes(cfg.Server.MaxIndexes),
		server.WithLogger(log),
	)
}

func init() {
	serveCmd.Flags().String("listen", ":3000", "address to listen on")
}
