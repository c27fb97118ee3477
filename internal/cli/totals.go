package cli

import (
	"strings"

	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/spellout"
	"github.com/factupro/factupro/internal/types"
	"github.com/spf13/cobra"
)

// totalsOutput is printed by the totals command
type totalsOutput struct {
	Subtotal      string         `json:"subtotal"`
	TaxAmount     string         `json:"taxAmount"`
	GrandTotal    string         `json:"grandTotal"`
	Currency      types.Currency `json:"currency"`
	AmountInWords string         `json:"amountInWords"`
}

func newTotalsCommand(log *logger.Logger) *cobra.Command {
	var (
		input    string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print the totals and the amount in words of an invoice json file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := loadInvoice(input, types.Currency(strings.ToUpper(currency)))
			if err != nil {
				return err
			}

			rounded := inv.Totals().Rounded(inv.Currency)
			out := totalsOutput{
				Subtotal:      numeric.Format(rounded.Subtotal, inv.Currency, "."),
				TaxAmount:     numeric.Format(rounded.TaxAmount, inv.Currency, "."),
				GrandTotal:    numeric.Format(rounded.GrandTotal, inv.Currency, "."),
				Currency:      inv.Currency,
				AmountInWords: spellout.ToWords(rounded.GrandTotal, inv.Currency),
			}
			log.Debugw("computed totals", "invoice_id", inv.ID, "grand_total", out.GrandTotal)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "invoice json file")
	cmd.Flags().StringVar(&currency, "currency", string(types.DefaultCurrency), "currency used when the invoice has none")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
