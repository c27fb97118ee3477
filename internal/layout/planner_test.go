package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineMeasurer breaks on newlines only, so tests control line counts exactly
type lineMeasurer struct{}

func (lineMeasurer) Wrap(text string, _ float64, _ FontStyle, _ float64) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func sampleInput() Input {
	items := []invoice.LineItem{
		{ID: "1", Description: "Développement", Unit: "J", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("100.000")},
	}
	tax := invoice.TaxConfig{Applicable: true, RatePercent: decimal.NewFromInt(19)}
	return Input{
		DocumentType:  types.DocumentTypeInvoice,
		Number:        "2024-0001",
		Date:          "2024-05-02",
		DueDate:       "2024-06-01",
		Company:       company.Company{Name: "Acme", MF: "123/A", Address: "Tunis", Phone: "+216 71 000 000", Email: "contact@acme.tn"},
		Client:        client.Client{Name: "Client SARL", MF: "999/B", Address: "Sfax"},
		Items:         items,
		Totals:        invoice.ComputeTotals(items, tax),
		Tax:           tax,
		Currency:      types.CurrencyTND,
		AmountInWords: "Deux Cent Trente-Huit Dinars",
	}
}

func kinds(blocks []Block) []Kind {
	return lo.Map(blocks, func(b Block, _ int) Kind { return b.Kind })
}

func mustFind(t *testing.T, blocks []Block, kind Kind) Block {
	t.Helper()
	b, ok := Find(blocks, kind)
	require.True(t, ok, "missing block %s", kind)
	return b
}

func TestPlanBlockOrder(t *testing.T) {
	in := sampleInput()
	in.Notes = "Paiement à 30 jours"

	blocks := NewPlanner(lineMeasurer{}).Plan(in)

	assert.Equal(t, []Kind{
		KindCompanyHeader,
		KindTitle,
		KindCounterpartyHeader,
		KindItemsTable,
		KindTotalsPanel,
		KindAmountInWords,
		KindNotes,
	}, kinds(blocks))
	assert.Equal(t, 1, PageCount(blocks))
}

func TestPlanLetterhead(t *testing.T) {
	tests := []struct {
		name        string
		letterhead  string
		hide        bool
		wantBg      bool
		wantCompany bool
	}{
		{name: "no letterhead", wantCompany: true},
		{name: "hide without letterhead keeps the header", hide: true, wantCompany: true},
		{name: "letterhead under drawn header", letterhead: "data:image/png;base64,AAAA", wantBg: true, wantCompany: true},
		{name: "letterhead replaces the header", letterhead: "data:image/png;base64,AAAA", hide: true, wantBg: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			in.Company.LetterheadURL = tt.letterhead
			in.Company.HideCompanyInfoOnPDF = tt.hide

			blocks := NewPlanner(lineMeasurer{}).Plan(in)

			_, hasCompany := Find(blocks, KindCompanyHeader)
			assert.Equal(t, tt.wantCompany, hasCompany)
			assert.Equal(t, tt.wantBg, blocks[0].Kind == KindBackground)
			if tt.wantBg {
				require.NotNil(t, blocks[0].Image)
				assert.Equal(t, tt.letterhead, blocks[0].Image.Source)
			}
		})
	}
}

func TestPlanTableTopGrowsWithAddressLines(t *testing.T) {
	lh := LineHeight(10)
	planner := NewPlanner(lineMeasurer{})

	tableTop := func(lines int) float64 {
		in := sampleInput()
		in.Client.Address = strings.TrimSuffix(strings.Repeat("Rue\n", lines), "\n")
		return mustFind(t, planner.Plan(in), KindItemsTable).AnchoredAt.Y
	}

	one := tableTop(1)
	assert.GreaterOrEqual(t, one, TableMinTop)

	previous := one
	for n := 2; n <= 6; n++ {
		top := tableTop(n)
		assert.Greater(t, top, previous, "n=%d", n)
		assert.GreaterOrEqual(t, top-one, float64(n-1)*lh-1e-9, "n=%d", n)
		previous = top
	}
}

func TestPlanTableStartsBelowCounterparty(t *testing.T) {
	in := sampleInput()
	in.Client.Name = "Une société au nom\nparticulièrement long\nsur trois lignes"
	in.Client.Address = "Immeuble A\nRue de la Liberté\nCité Olympique\n1003 Tunis"

	blocks := NewPlanner(lineMeasurer{}).Plan(in)
	counterparty := mustFind(t, blocks, KindCounterpartyHeader)
	table := mustFind(t, blocks, KindItemsTable)

	assert.GreaterOrEqual(t, table.AnchoredAt.Y, counterparty.Bottom()+TableMargin-1e-9)
	for _, line := range counterparty.Lines {
		assert.LessOrEqual(t, line.Y+line.Height, table.AnchoredAt.Y)
	}
}

func TestPlanLongCompanyHeaderPushesCounterpartyDown(t *testing.T) {
	short := sampleInput()
	long := sampleInput()
	long.Company.Address = strings.Repeat("Ligne\n", 8) + "Fin"

	planner := NewPlanner(lineMeasurer{})
	shortBlocks := planner.Plan(short)
	longBlocks := planner.Plan(long)

	company := mustFind(t, longBlocks, KindCompanyHeader)
	counterparty := mustFind(t, longBlocks, KindCounterpartyHeader)

	assert.Greater(t, counterparty.AnchoredAt.Y, mustFind(t, shortBlocks, KindCounterpartyHeader).AnchoredAt.Y)
	assert.GreaterOrEqual(t, counterparty.Rules[0].Y1, company.Bottom())
	assert.GreaterOrEqual(t, counterparty.AnchoredAt.Y, counterparty.Rules[0].Y1)
}

func TestPlanTotalsAnchoredOnTable(t *testing.T) {
	for _, applicable := range []bool{true, false} {
		t.Run(fmt.Sprintf("tax=%v", applicable), func(t *testing.T) {
			in := sampleInput()
			in.Tax.Applicable = applicable
			in.Totals = invoice.ComputeTotals(in.Items, in.Tax)

			blocks := NewPlanner(lineMeasurer{}).Plan(in)
			table := mustFind(t, blocks, KindItemsTable)
			totals := mustFind(t, blocks, KindTotalsPanel)
			words := mustFind(t, blocks, KindAmountInWords)

			assert.InDelta(t, table.Bottom()+totalsOffset, totals.AnchoredAt.Y, 1e-9)

			offset := lo.Ternary(applicable, wordsOffsetWithTax, wordsOffsetWithoutTax)
			assert.InDelta(t, totals.AnchoredAt.Y+offset, words.AnchoredAt.Y, 1e-9)
			assert.GreaterOrEqual(t, words.AnchoredAt.Y, totals.Bottom())

			texts := lo.Map(totals.Lines, func(l TextLine, _ int) string { return l.Text })
			if applicable {
				assert.Len(t, totals.Lines, 6)
				assert.Contains(t, texts, "Total HT :")
				assert.Contains(t, texts, "TVA (19%) :")
				assert.Contains(t, texts, "Total TTC :")
				assert.Contains(t, texts, "238.000 DT")
			} else {
				assert.Len(t, totals.Lines, 2)
				assert.Contains(t, texts, "Net à Payer :")
				assert.Contains(t, texts, "200.000 DT")
			}
		})
	}
}

func TestPlanCurrencyPrecision(t *testing.T) {
	in := sampleInput()
	in.Items = []invoice.LineItem{{Description: "x", Unit: "U", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("10.006")}}
	in.Totals = invoice.ComputeTotals(in.Items, in.Tax)

	cells := func(c types.Currency) []string {
		in.Currency = c
		table := mustFind(t, NewPlanner(lineMeasurer{}).Plan(in), KindItemsTable).Table
		require.Len(t, table.Rows, 1)
		return lo.Flatten(table.Rows[0].Cells)
	}

	assert.Equal(t, []string{"x", "U", "1", "10.006", "10.006"}, cells(types.CurrencyTND))
	assert.Equal(t, []string{"x", "U", "1", "10.01", "10.01"}, cells(types.CurrencyEUR))

	in.Currency = types.CurrencyEUR
	totals := mustFind(t, NewPlanner(lineMeasurer{}).Plan(in), KindTotalsPanel)
	for _, line := range totals.Lines {
		if strings.HasSuffix(line.Text, "€") {
			amount := strings.TrimSuffix(line.Text, " €")
			assert.Len(t, strings.SplitN(amount, ".", 2)[1], 2, line.Text)
		}
	}
}

func TestPlanQuoteLabels(t *testing.T) {
	in := sampleInput()
	in.DocumentType = types.DocumentTypeQuote

	blocks := NewPlanner(lineMeasurer{}).Plan(in)
	texts := lo.FlatMap(blocks, func(b Block, _ int) []string {
		return lo.Map(b.Lines, func(l TextLine, _ int) string { return l.Text })
	})

	assert.Contains(t, texts, "DEVIS")
	assert.Contains(t, texts, "Devis pour :")
	assert.Contains(t, texts, "Validité jusqu'au : 2024-06-01")
	assert.Contains(t, texts, "Arrêté le présent devis à la somme de :")
	assert.NotContains(t, texts, "FACTURE")
}

func TestPlanWithoutDueDate(t *testing.T) {
	in := sampleInput()
	in.DueDate = ""

	title := mustFind(t, NewPlanner(lineMeasurer{}).Plan(in), KindTitle)
	assert.Len(t, title.Lines, 3)
}

func TestPlanPaginatesLongTables(t *testing.T) {
	in := sampleInput()
	in.Company.LetterheadURL = "data:image/png;base64,AAAA"
	in.Items = nil
	for i := 0; i < 80; i++ {
		in.Items = append(in.Items, invoice.LineItem{
			ID: fmt.Sprint(i), Description: fmt.Sprintf("Article %d", i), Unit: "U",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10),
		})
	}
	in.Totals = invoice.ComputeTotals(in.Items, in.Tax)
	in.Notes = strings.Repeat("Une ligne de note\n", 40)

	blocks := NewPlanner(lineMeasurer{}).Plan(in)
	pages := PageCount(blocks)
	require.Greater(t, pages, 1)

	tables := lo.Filter(blocks, func(b Block, _ int) bool { return b.Kind == KindItemsTable })
	require.Greater(t, len(tables), 1)

	rows := 0
	for _, b := range tables {
		rows += len(b.Table.Rows)
		assert.Equal(t, b.AnchoredAt.Y, b.Table.HeaderY)
		for _, row := range b.Table.Rows {
			assert.LessOrEqual(t, row.Y+row.Height, BottomLimit)
		}
	}
	assert.Equal(t, 80, rows)

	for _, b := range blocks {
		if b.Kind == KindBackground {
			continue
		}
		assert.LessOrEqual(t, b.Bottom(), BottomLimit+1e-9, "%s on page %d", b.Kind, b.Page)
	}

	// one background per page, each first on its page
	page := 0
	for i, b := range blocks {
		if b.Page != page {
			page = b.Page
			assert.Equal(t, KindBackground, b.Kind, "block %d", i)
		}
	}
	backgrounds := lo.CountBy(blocks, func(b Block) bool { return b.Kind == KindBackground })
	assert.Equal(t, pages, backgrounds)
}

func TestPlanMovesTableBelowTallCounterparty(t *testing.T) {
	for _, items := range []int{0, 1} {
		in := sampleInput()
		in.Items = in.Items[:items]
		in.Totals = invoice.ComputeTotals(in.Items, in.Tax)
		in.Client.Address = strings.TrimSuffix(strings.Repeat("Rue\n", 38), "\n")

		blocks := NewPlanner(lineMeasurer{}).Plan(in)
		counterparty := mustFind(t, blocks, KindCounterpartyHeader)
		require.Greater(t, counterparty.Bottom()+TableMargin+tableHeaderHeight, BottomLimit)

		table := mustFind(t, blocks, KindItemsTable)
		assert.Equal(t, 2, table.Page, "items=%d", items)
		assert.Equal(t, MarginTop, table.AnchoredAt.Y, "items=%d", items)
		assert.Len(t, table.Table.Rows, items)
		for _, b := range blocks {
			assert.LessOrEqual(t, b.Bottom(), BottomLimit+1e-9, "%s on page %d", b.Kind, b.Page)
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	in := sampleInput()
	planner := NewPlanner(nil)
	assert.Equal(t, planner.Plan(in), planner.Plan(in))
}

func TestLineHeight(t *testing.T) {
	assert.Equal(t, 5.29, LineHeight(10))
	assert.Equal(t, 6.35, LineHeight(12))
}

func TestWrapWith(t *testing.T) {
	byRunes := func(s string) float64 { return float64(len([]rune(s))) }

	assert.Nil(t, WrapWith("", 10, byRunes))
	assert.Nil(t, WrapWith("   \n", 10, byRunes))
	assert.Equal(t, []string{"un deux", "trois"}, WrapWith("un deux trois", 8, byRunes))
	assert.Equal(t, []string{"ligne 1", "ligne 2"}, WrapWith("ligne 1\nligne 2", 20, byRunes))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, WrapWith("abcdefghijk", 5, byRunes))
	assert.Equal(t, []string{"a", "", "b"}, WrapWith("a\n\nb", 5, byRunes))
}

func TestApproxMeasurerWrapsLongAddresses(t *testing.T) {
	lines := ApproxMeasurer{}.Wrap(strings.Repeat("avenue ", 30), 10, StyleNormal, counterpartyWidth)
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, float64(len([]rune(line)))*10*ptToMM*0.5, counterpartyWidth+1e-9)
	}
}
