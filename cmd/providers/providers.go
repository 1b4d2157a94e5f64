package providers

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribelab/mediascribe/internal/cmdutil"
	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/providers"
	"github.com/scribelab/mediascribe/internal/providers/synthesis"
)

// ProvidersCmd lists the configured providers and their readiness.
var ProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers and their readiness",
	Long: `List configured providers and their readiness.

Shows the configured transcription and synthesis providers, whether each is
ready to use (API key present, model path set), their rate limits, and the
available synthesis prompt styles.`,
	Example: `  # Show provider status
  mediascribe providers`,
	PreRunE: validateProviders,
	RunE:    runProviders,
}

func validateProviders(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	transcriber, err := cmdutil.NewTranscriptionProvider(cfg)
	if err != nil {
		return err
	}
	printProvider(out, transcriber, "")

	synthesizer, err := cmdutil.NewSynthesisProvider(cfg)
	if err != nil {
		return err
	}
	if synthesizer == nil {
		fmt.Fprintln(out, "synthesis     disabled")
	} else {
		printProvider(out, synthesizer, synthesizer.ModelName())
	}

	fmt.Fprintf(out, "\nPrompt styles: %s\n", strings.Join(synthesis.Styles(), ", "))
	return nil
}

func printProvider(out io.Writer, p providers.Provider, model string) {
	status := "not ready"
	if p.Available() {
		status = "ready"
	}

	limit := p.RateLimit()
	rate := "unlimited"
	if limit.RequestsPerMinute > 0 {
		rate = fmt.Sprintf("%d req/min", limit.RequestsPerMinute)
	}

	if model != "" {
		fmt.Fprintf(out, "%-13s %s (%s, %s, %s)\n", p.Type(), p.Name(), model, status, rate)
	} else {
		fmt.Fprintf(out, "%-13s %s (%s, %s)\n", p.Type(), p.Name(), status, rate)
	}
}
