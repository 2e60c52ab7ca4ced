package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/datadict/internal/server"
)

var serveFlags struct {
	listen string
	watch  bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parser arguments over HTTP",
	Long: `Expose a read-only JSON API over one specification collection:

  GET /datasets
  GET /datasets/{name}/parser-args
  GET /datasets/{name}/parser-arg-sets
  GET /healthz
  GET /metrics

With --watch the collection cache is dropped as soon as the file changes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "watch the specfile and drop cached copies on change")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.Specfile == "" {
		return fmt.Errorf("serve: --specfile is required")
	}
	addr := cfg.HTTP.ListenAddr
	if serveFlags.listen != "" {
		addr = serveFlags.listen
	}
	watch := cfg.Watch || serveFlags.watch

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	srv := server.New(store, cfg.Specfile, cfg.SkipStat, log)
	g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
	if watch {
		g.Go(func() error { return store.Watch(ctx, cfg.Specfile) })
	}
	return g.Wait()
}
