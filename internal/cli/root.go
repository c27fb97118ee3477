package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/factupro/factupro/internal/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCommand builds the factupro command tree
func NewRootCommand(log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "factupro",
		Short: "Render French invoices and quotes offline",
		Long: `factupro computes the totals of an invoice or quote, spells the amount due
in French and lays the document out on A4 pages.

The input is the json record stored by the API, old records with missing
fields and numbers typed as text are accepted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRenderCommand(log))
	root.AddCommand(newTotalsCommand(log))
	return root
}

// Execute runs the command line and exits with a non zero code on failure
func Execute() {
	log := logger.L
	if err := run(NewRootCommand(log), os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string, stderr io.Writer) error {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
