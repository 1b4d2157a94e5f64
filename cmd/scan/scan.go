package scan

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/scanner"
)

// Flag variables
var (
	scanDir    string
	scanDryRun bool
)

// ScanCmd sorts recognized files from the scan directory into the library.
var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sort recognized files from the scan directory into the library",
	Long: `Sort recognized files from the scan directory into the library.

Audio, video, and document files found at the top level of the scan directory
are copied into their per-type library directories. Zero-byte files, files
already in the library, hidden files, and in-progress download artifacts are
skipped.`,
	Example: `  # Sort the configured scan directory
  mediascribe scan

  # Preview without copying
  mediascribe scan --dry-run

  # Scan a different directory
  mediascribe scan --dir ~/Desktop`,
	PreRunE: validateScan,
	RunE:    runScan,
}

func init() {
	ScanCmd.Flags().StringVarP(&scanDir, "dir", "d", "", "Directory to scan (default: configured library.scan_dir)")
	ScanCmd.Flags().BoolVarP(&scanDryRun, "dry-run", "n", false, "Report what would be copied without copying")
}

func validateScan(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir := cfg.Library.ScanDir
	if scanDir != "" {
		dir = scanDir
	}
	dir, err = cmdutil.ResolvePath(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve scan directory; %w", err)
	}

	s := scanner.New(dir,
		cfg.Library.AudioDir,
		cfg.Library.VideoDir,
		cfg.Library.DocumentDir,
		scanner.WithLogger(slog.Default()),
		scanner.WithDryRun(scanDryRun))

	results, err := s.Scan()
	if err != nil {
		return fmt.Errorf("scan failed; %w", err)
	}

	out := cmd.OutOrStdout()
	counts := map[scanner.Status]int{}
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case scanner.StatusCopied:
			fmt.Fprintf(out, "copied  %-8s %s -> %s\n", r.FileType, r.Path, r.Destination)
		case scanner.StatusDryRun:
			fmt.Fprintf(out, "would   %-8s %s -> %s\n", r.FileType, r.Path, r.Destination)
		case scanner.StatusSkipped:
			fmt.Fprintf(out, "skipped %-8s %s (%s)\n", r.FileType, r.Path, r.Reason)
		case scanner.StatusError:
			fmt.Fprintf(out, "error   %-8s %s (%s)\n", r.FileType, r.Path, r.Reason)
		}
	}

	fmt.Fprintf(out, "\n%d copied, %d skipped, %d errors\n",
		counts[scanner.StatusCopied]+counts[scanner.StatusDryRun],
		counts[scanner.StatusSkipped],
		counts[scanner.StatusError])
	return nil
}
