package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/pipeline"
	"github.com/scribelab/mediascribe/internal/scanner"
	"github.com/scribelab/mediascribe/internal/watcher"
)

// Flag variables
var (
	watchDirs []string
)

// WatchCmd watches directories and processes new files as they settle.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch directories and process new files automatically",
	Long: `Watch directories and process new files automatically.

New audio, video, and document files are picked up once filesystem events
settle (rapid write bursts are coalesced into one delivery) and run through
the full processing pipeline. Deletes, editor temp files, and empty files are
ignored. Runs until interrupted.`,
	Example: `  # Watch the configured scan directory
  mediascribe watch

  # Watch additional directories
  mediascribe watch --dir ~/Lectures --dir ~/Papers`,
	PreRunE: validateWatch,
	RunE:    runWatch,
}

func init() {
	WatchCmd.Flags().StringArrayVarP(&watchDirs, "dir", "d", nil, "Directory to watch (repeatable; default: configured library.scan_dir)")
}

func validateWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.Default()

	p, err := cmdutil.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	handler := func(ctx context.Context, path string, fileType scanner.FileType) {
		logger.Info("processing watched file", "path", path, "type", fileType)

		var run *pipeline.RunResult
		var err error
		switch fileType {
		case scanner.FileTypeAudio, scanner.FileTypeVideo:
			run, err = p.ProcessMedia(ctx, path)
		case scanner.FileTypeDocument:
			if cfg.Synthesis.Enabled {
				run, err = p.ProcessDocument(ctx, path)
			} else {
				logger.Info("skipping document, synthesis disabled", "path", path)
				return
			}
		}
		if err != nil {
			logger.Error("failed to process watched file", "path", path, "error", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", run.OutputPath)
	}

	w, err := watcher.New(handler,
		watcher.WithLogger(logger),
		watcher.WithDebounceWindow(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond),
		watcher.WithDeleteGracePeriod(time.Duration(cfg.Watch.DeleteGraceMs)*time.Millisecond))
	if err != nil {
		return fmt.Errorf("failed to create watcher; %w", err)
	}

	dirs := watchDirs
	if len(dirs) == 0 {
		dirs = []string{cfg.Library.ScanDir}
	}
	for _, dir := range dirs {
		resolved, err := cmdutil.ResolvePath(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve watch directory %q; %w", dir, err)
		}
		if err := w.Watch(resolved); err != nil {
			return fmt.Errorf("failed to watch %q; %w", resolved, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", resolved)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher; %w", err)
	}
	defer func() { _ = w.Stop() }()

	go func() {
		for err := range w.Errors() {
			logger.Warn("watcher error", "error", err)
		}
	}()

	<-ctx.Done()

	stats := w.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d events received, %d files processed\n",
		stats.EventsReceived, stats.FilesDelivered)
	return nil
}
