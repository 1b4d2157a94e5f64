package anki

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/export/anki"
)

// Flag variables
var (
	ankiDeckName string
	ankiOutput   string
)

// AnkiCmd packages flashcard content into an Anki deck.
var AnkiCmd = &cobra.Command{
	Use:   "anki <content.json>",
	Short: "Package flashcard content into an Anki .apkg deck",
	Long: `Package flashcard content into an Anki .apkg deck.

The input is a flashcard content JSON file with definition, concept, process,
and comparison cards. Cards are validated, rendered through the matching note
models, and written as an importable .apkg package.`,
	Example: `  # Build a deck next to the content file
  mediascribe anki lecture_cards.json

  # Custom deck name and output path
  mediascribe anki --deck-name "Biology 101" --output bio.apkg lecture_cards.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateAnki,
	RunE:    runAnki,
}

func init() {
	AnkiCmd.Flags().StringVar(&ankiDeckName, "deck-name", "", "Deck name shown in Anki (default: configured anki.deck_name)")
	AnkiCmd.Flags().StringVarP(&ankiOutput, "output", "o", "", "Output .apkg path (default: content file name with .apkg)")
}

func validateAnki(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read content file %q; %w", args[0], err)
	}
	cmd.SilenceUsage = true
	return nil
}

func runAnki(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read content file; %w", err)
	}

	var content anki.DeckContent
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse flashcard content; %w", err)
	}

	deckName := cfg.Anki.DeckName
	if ankiDeckName != "" {
		deckName = ankiDeckName
	}

	output := ankiOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".apkg"
	}
	output, err = cmdutil.ResolvePath(output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path; %w", err)
	}

	if err := anki.WriteAPKG(output, deckName, content); err != nil {
		return fmt.Errorf("failed to build deck; %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cards)\n", output, len(content.Flashcards))
	return nil
}
