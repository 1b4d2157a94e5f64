package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/cmd/anki"
	"github.com/scribelab/mediascribe/cmd/document"
	"github.com/scribelab/mediascribe/cmd/initialize"
	"github.com/scribelab/mediascribe/cmd/process"
	providerscmd "github.com/scribelab/mediascribe/cmd/providers"
	"github.com/scribelab/mediascribe/cmd/scan"
	"github.com/scribelab/mediascribe/cmd/version"
	"github.com/scribelab/mediascribe/cmd/watch"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded
// after config loads.
var logManager *logging.Manager

var mediascribeCmd = &cobra.Command{
	Use:   "mediascribe",
	Short: "Transcribe and summarize long recordings and large documents",
	Long: "Mediascribe turns long lectures and large documents into study material.\n\n" +
		"Recordings are converted to 16 kHz WAV, split into duration-bounded segments when they " +
		"exceed the chunking threshold, transcribed segment by segment, and recombined into one " +
		"transcript. Documents are split at structural boundaries and synthesized chunk by chunk. " +
		"A failure on one chunk never discards the work done on the others.\n\n",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()

	mediascribeCmd.AddCommand(process.ProcessCmd)
	mediascribeCmd.AddCommand(document.DocumentCmd)
	mediascribeCmd.AddCommand(scan.ScanCmd)
	mediascribeCmd.AddCommand(watch.WatchCmd)
	mediascribeCmd.AddCommand(anki.AnkiCmd)
	mediascribeCmd.AddCommand(providerscmd.ProvidersCmd)
	mediascribeCmd.AddCommand(initialize.InitializeCmd)
	mediascribeCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := config.Init(); err != nil {
		return err
	}

	logFile := config.GetPath("log_file")
	levelStr := config.GetString("log_level")
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		level = logging.DefaultLevel
		if levelStr != "" {
			logger.Warn("invalid log level configured, using default",
				"configured", levelStr, "default", "info")
		}
	}

	if err := logManager.Upgrade(logFile, level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
	}

	// Subcommands log through the default logger.
	slog.SetDefault(logManager.Logger())

	return nil
}

// Execute runs the root command.
func Execute() error {
	mediascribeCmd.SilenceErrors = true
	mediascribeCmd.SilenceUsage = true

	defer func() { _ = logManager.Close() }()

	err := mediascribeCmd.Execute()

	if err != nil {
		cmd, _, _ := mediascribeCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = mediascribeCmd
		}

		fmt.Printf("Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Printf("\n")
			cmd.SetOut(os.Stdout)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
