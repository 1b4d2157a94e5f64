package initialize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/config"
)

// Flag variables
var (
	initializeForce bool
)

// InitializeCmd writes a default configuration file.
var InitializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file.

Creates ~/.config/mediascribe/config.yaml populated with default values for
chunking, providers, output, and the library directories. An existing config
file is left untouched unless --force is given.`,
	Example: `  # Create the default config file
  mediascribe initialize

  # Overwrite an existing config file
  mediascribe initialize --force`,
	Aliases: []string{"init"},
	PreRunE: validateInitialize,
	RunE:    runInitialize,
}

func init() {
	InitializeCmd.Flags().BoolVar(&initializeForce, "force", false, "Overwrite an existing config file")
}

func validateInitialize(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runInitialize(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path; no home directory")
	}

	if config.ConfigExists() && !initializeForce {
		return fmt.Errorf("config file already exists at %s; use --force to overwrite", path)
	}

	if err := config.WriteDefault(config.NewDefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
