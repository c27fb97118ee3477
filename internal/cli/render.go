package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factupro/factupro/internal/domain/invoice"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/httpclient"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/pdf"
	"github.com/factupro/factupro/internal/service"
	"github.com/factupro/factupro/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type renderOptions struct {
	input    string
	output   string
	currency string
	timeout  time.Duration
}

func newRenderCommand(log *logger.Logger) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an invoice json file to PDF",
		Example: `  # Render into the current directory
  factupro render --input invoice.json

  # Render into out/, euros when neither the invoice nor its company names a currency
  factupro render --input invoice.json --output out --currency EUR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := render(cmd.Context(), opts, log)
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "invoice json file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.currency, "currency", string(types.DefaultCurrency), "currency used when the invoice has none")
	cmd.Flags().DurationVar(&opts.timeout, "letterhead-timeout", 10*time.Second, "timeout of remote letterhead downloads")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// render writes the PDF of the input file into the output directory and
// returns its path
func render(ctx context.Context, opts *renderOptions, log *logger.Logger) (string, error) {
	inv, err := loadInvoice(opts.input, types.Currency(strings.ToUpper(opts.currency)))
	if err != nil {
		return "", err
	}

	doc, err := service.NewDocumentAssembler(pdf.NewFontMeasurer()).Assemble(ctx, inv)
	if err != nil {
		return "", err
	}

	client := httpclient.NewDefaultClient(httpclient.ClientConfig{Timeout: opts.timeout, RetryMax: 2}, log)
	generator := pdf.NewGenerator(pdf.NewLetterheadLoader(client), log)
	data, err := generator.RenderDocument(ctx, &pdf.Document{
		Title:  strings.TrimSuffix(doc.Filename, ".pdf"),
		Author: inv.CompanySnap.Name,
		Blocks: doc.Blocks,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Could not create the output directory %s", opts.output).
			Mark(ierr.ErrSystem)
	}
	// the number is user input, keep the file inside the output directory
	path := filepath.Join(opts.output, filepath.Base(doc.Filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Could not write %s", path).
			Mark(ierr.ErrSystem)
	}

	log.Infow("rendered document",
		"path", path,
		"pages", doc.PageCount,
		"grand_total", doc.Totals.GrandTotal.String(),
		"currency", doc.Currency,
	)
	return path, nil
}

// loadInvoice reads a stored or hand written record and normalizes it
func loadInvoice(path string, fallback types.Currency) (*invoice.Invoice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read %s", path).
			Mark(ierr.ErrNotFound)
	}

	var draft invoice.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s is not a valid invoice json file", path).
			Mark(ierr.ErrValidation)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if fallback != "" {
		if err := fallback.Validate(); err != nil {
			return nil, err
		}
	}

	return invoice.Normalize(&draft, fallback), nil
}
