package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	changetoken "github.com/commonsensesoftware/go-changetoken"
	"github.com/commonsensesoftware/go-changetoken/filetoken"
)

func watchCmd() *cobra.Command {
	var (
		ignore   []string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Log a line for every detected change",
		Long: `Watch the given paths (current directory when none are given) and log
a line each time a change batch is detected.

Examples:
  tokenwatch watch
  tokenwatch watch ./conf ./templates
  tokenwatch watch --ignore='*.log' --interval=250ms .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args, ignore, interval)
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Glob patterns to skip")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "Scan interval")

	return cmd
}

func runWatch(paths, ignore []string, interval time.Duration) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	logger := slog.Default()
	watcher := filetoken.NewWatcher(filetoken.WatcherConfig{
		Paths:    paths,
		Ignore:   ignore,
		Interval: interval,
	})

	sub := changetoken.OnChangeFunc(watcher.Token, func() {
		logger.Info("change detected", "paths", paths)
	})
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "paths", paths, "interval", interval)

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
