package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/embedposts/internal/config"
	"github.com/conneroisu/embedposts/internal/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <page.html>",
	Short: "Re-resolve a page whenever it changes",
	Long: `Resolve a page once, then watch it and resolve it again after every change.
Each run uses a fresh window, so every inclusion is evaluated as on a new page load.

Examples:
  embedposts watch blog.html
  embedposts watch blog.html --format json --debounce 500ms`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("format", "f", "text", "Output format (json, yaml, text)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Delay before re-resolving after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}

	logger := newCommandLogger(cmd, cfg)
	path := args[0]

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resolve := func(ctx context.Context) error {
		report, err := resolvePage(ctx, cfg, logger, path, true)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), report, cfg.Output.Format)
	}

	if err := resolve(ctx); err != nil {
		return err
	}

	fileWatcher, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		logger.Info(ctx, "Page changed", "events", len(events))
		if err := resolve(ctx); err != nil {
			// The page may be mid-write; the next change retries.
			logger.Error(ctx, err, "Failed to resolve page", "page", path)
		}
		return nil
	})

	fileWatcher.AddFilter(watcher.HTMLFilter)
	if err := fileWatcher.AddFile(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (press Ctrl+C to stop)\n", path)
	<-ctx.Done()
	return nil
}
