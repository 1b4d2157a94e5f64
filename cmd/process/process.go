package process

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/media"
	"github.com/scribelab/mediascribe/internal/orchestrate"
	"github.com/scribelab/mediascribe/internal/pipeline"
	"github.com/scribelab/mediascribe/internal/providers/synthesis"
)

// Flag variables
var (
	processOutputDir   string
	processFormat      string
	processStyle       string
	processWorkers     int
	processNoSynthesis bool
	processQuiet       bool
)

// ProcessCmd transcribes and summarizes one audio or video file.
var ProcessCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Transcribe and summarize an audio or video file",
	Long: `Transcribe and summarize an audio or video file.

Recordings longer than the chunking threshold are split into duration-bounded
segments and transcribed segment by segment; a failed segment leaves a gap in
the transcript instead of failing the run. Unless synthesis is disabled, the
transcript is then summarized into study notes and both are exported together.`,
	Example: `  # Transcribe and summarize a lecture recording
  mediascribe process lecture.mp4

  # Transcript only, as JSON
  mediascribe process --no-synthesis --format json lecture.mp3

  # Key concepts style, four concurrent segments
  mediascribe process --style key_concepts --workers 4 seminar.wav`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateProcess,
	RunE:    runProcess,
}

func init() {
	ProcessCmd.Flags().StringVarP(&processOutputDir, "output-dir", "o", "", "Output directory (default: configured output.dir)")
	ProcessCmd.Flags().StringVarP(&processFormat, "format", "f", "", "Output format (markdown, json)")
	ProcessCmd.Flags().StringVarP(&processStyle, "style", "s", "", "Synthesis prompt style (lecture_summary, study_notes, key_concepts)")
	ProcessCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "Concurrent chunk workers (default: configured chunking.workers)")
	ProcessCmd.Flags().BoolVar(&processNoSynthesis, "no-synthesis", false, "Skip synthesis and export the transcript only")
	ProcessCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "Suppress progress output")
}

func validateProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read input file %q; %w", path, err)
	}
	if !media.IsMedia(path) {
		return fmt.Errorf("%q is not a recognized audio or video file", path)
	}

	if processFormat != "" && processFormat != "markdown" && processFormat != "json" {
		return fmt.Errorf("invalid format %q; must be one of: markdown, json", processFormat)
	}
	if processStyle != "" {
		if _, err := synthesis.Prompt(processStyle); err != nil {
			return err
		}
	}

	cmd.SilenceUsage = true
	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if processNoSynthesis {
		cfg.Synthesis.Enabled = false
	}

	extra := flagOverrides()
	p, err := cmdutil.NewPipeline(cfg, slog.Default(), extra...)
	if err != nil {
		return err
	}

	run, err := p.ProcessMedia(ctx, args[0])
	if err != nil {
		return fmt.Errorf("processing failed; %w", err)
	}

	printSummary(cmd, run)
	return nil
}

func flagOverrides() []pipeline.Option {
	var extra []pipeline.Option
	if processOutputDir != "" {
		if resolved, err := cmdutil.ResolvePath(processOutputDir); err == nil {
			extra = append(extra, pipeline.WithOutputDir(resolved))
		}
	}
	if processFormat != "" {
		extra = append(extra, pipeline.WithOutputFormat(processFormat))
	}
	if processStyle != "" {
		extra = append(extra, pipeline.WithPromptStyle(processStyle))
	}
	if processWorkers > 0 {
		extra = append(extra, pipeline.WithWorkers(processWorkers))
	}
	if !processQuiet {
		extra = append(extra, pipeline.WithObserver(progressObserver))
	}
	return extra
}

func progressObserver(e orchestrate.ProgressEvent) {
	fmt.Fprintf(os.Stderr, "  chunk %d/%d done (%s)\n", e.Completed, e.TotalChunks, e.Status)
}

func printSummary(cmd *cobra.Command, run *pipeline.RunResult) {
	out := cmd.OutOrStdout()

	var failed int
	for _, c := range run.Result.Chunks {
		if !c.Succeeded() {
			failed++
		}
	}

	fmt.Fprintf(out, "Wrote %s\n", run.OutputPath)
	fmt.Fprintf(out, "  run:        %s\n", run.RunID)
	fmt.Fprintf(out, "  transcript: %d chars\n", len(run.Result.Transcript))
	if run.Result.Synthesis != "" {
		fmt.Fprintf(out, "  synthesis:  %s (%s)\n", run.Result.ProviderName, run.Result.ModelName)
	}
	if failed > 0 {
		fmt.Fprintf(out, "  warning:    %d of %d chunks failed\n", failed, len(run.Result.Chunks))
	}
}
