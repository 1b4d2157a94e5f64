package document

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/orchestrate"
	"github.com/scribelab/mediascribe/internal/pipeline"
	"github.com/scribelab/mediascribe/internal/providers/synthesis"
	"github.com/scribelab/mediascribe/internal/readers"
)

// Flag variables
var (
	documentOutputDir string
	documentFormat    string
	documentStyle     string
	documentWorkers   int
	documentQuiet     bool
)

// DocumentCmd synthesizes study notes from a document.
var DocumentCmd = &cobra.Command{
	Use:   "document <file>",
	Short: "Synthesize study notes from a PDF, EPUB, or text document",
	Long: `Synthesize study notes from a PDF, EPUB, or text document.

Large documents are split into bounded chunks at section or paragraph
boundaries and each chunk is synthesized separately; the per-chunk outputs are
then combined into one study notes document. A failed chunk is recorded and
skipped rather than failing the run, as long as at least one chunk succeeds.`,
	Example: `  # Summarize a PDF into study notes
  mediascribe document paper.pdf

  # Key concepts from an EPUB, written as JSON
  mediascribe document --style key_concepts --format json book.epub`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateDocument,
	RunE:    runDocument,
}

func init() {
	DocumentCmd.Flags().StringVarP(&documentOutputDir, "output-dir", "o", "", "Output directory (default: configured output.dir)")
	DocumentCmd.Flags().StringVarP(&documentFormat, "format", "f", "", "Output format (markdown, json)")
	DocumentCmd.Flags().StringVarP(&documentStyle, "style", "s", "", "Synthesis prompt style (lecture_summary, study_notes, key_concepts)")
	DocumentCmd.Flags().IntVarP(&documentWorkers, "workers", "w", 0, "Concurrent chunk workers (default: configured chunking.workers)")
	DocumentCmd.Flags().BoolVarP(&documentQuiet, "quiet", "q", false, "Suppress progress output")
}

func validateDocument(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read input file %q; %w", path, err)
	}
	if !readers.IsDocument(path) {
		return fmt.Errorf("%q is not a recognized document format", path)
	}

	if documentFormat != "" && documentFormat != "markdown" && documentFormat != "json" {
		return fmt.Errorf("invalid format %q; must be one of: markdown, json", documentFormat)
	}
	if documentStyle != "" {
		if _, err := synthesis.Prompt(documentStyle); err != nil {
			return err
		}
	}

	cmd.SilenceUsage = true
	return nil
}

func runDocument(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Document runs are synthesis runs; the enabled flag only gates media runs.
	cfg.Synthesis.Enabled = true

	var extra []pipeline.Option
	if documentOutputDir != "" {
		if resolved, err := cmdutil.ResolvePath(documentOutputDir); err == nil {
			extra = append(extra, pipeline.WithOutputDir(resolved))
		}
	}
	if documentFormat != "" {
		extra = append(extra, pipeline.WithOutputFormat(documentFormat))
	}
	if documentStyle != "" {
		extra = append(extra, pipeline.WithPromptStyle(documentStyle))
	}
	if documentWorkers > 0 {
		extra = append(extra, pipeline.WithWorkers(documentWorkers))
	}
	if !documentQuiet {
		extra = append(extra, pipeline.WithObserver(func(e orchestrate.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "  chunk %d/%d done (%s)\n", e.Completed, e.TotalChunks, e.Status)
		}))
	}

	p, err := cmdutil.NewPipeline(cfg, slog.Default(), extra...)
	if err != nil {
		return err
	}

	run, err := p.ProcessDocument(ctx, args[0])
	if err != nil {
		return fmt.Errorf("processing failed; %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", run.OutputPath)
	fmt.Fprintf(out, "  run:       %s\n", run.RunID)
	fmt.Fprintf(out, "  chunks:    %d\n", len(run.Result.Chunks))
	fmt.Fprintf(out, "  synthesis: %s (%s)\n", run.Result.ProviderName, run.Result.ModelName)
	return nil
}
