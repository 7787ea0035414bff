package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/commonsensesoftware/go-changetoken/filetoken"
	"github.com/commonsensesoftware/go-changetoken/reload"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		ignore   []string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Broadcast changes to websocket clients",
		Long: `Watch the given paths and push a reload message to every connected
websocket client on each change batch.

Clients connect to ws://<addr>/reload; Prometheus metrics are served
at /metrics.

Examples:
  tokenwatch serve .
  tokenwatch serve --addr=:9000 ./site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args, addr, ignore, interval)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8090", "Address to listen on")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Glob patterns to skip")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "Scan interval")

	return cmd
}

func runServe(paths []string, addr string, ignore []string, interval time.Duration) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	logger := slog.Default()
	watcher := filetoken.NewWatcher(filetoken.WatcherConfig{
		Paths:    paths,
		Ignore:   ignore,
		Interval: interval,
	})

	hub := reload.NewHub()
	defer hub.Close()

	sub := hub.Attach(watcher.Token)
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: addr, Handler: hub.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "paths", paths)
		errCh <- server.ListenAndServe()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
