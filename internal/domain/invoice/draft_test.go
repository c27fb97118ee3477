package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyRecord = `{
	"id": "1700000000000",
	"number": "2023-0007",
	"date": "2023-11-14",
	"dueDate": "",
	"clientId": "c1",
	"clientSnap": {"id": "c1", "name": "Client SARL", "mf": "000/B", "address": "Sfax"},
	"companySnap": {"id": "default_1", "name": "Ma Société", "mf": "123/A", "address": "Tunis", "currency": "EUR"},
	"items": [
		{"id": "1", "description": "Audit", "quantity": "2,5", "unitPrice": 100},
		{"id": "2", "description": "Déplacement", "unit": "Km", "quantity": 10, "unitPrice": "0,450"}
	],
	"tvaRate": 19,
	"status": "en_attente"
}`

func TestNormalizeLegacyRecord(t *testing.T) {
	var draft Draft
	require.NoError(t, json.Unmarshal([]byte(legacyRecord), &draft))
	require.NoError(t, draft.Validate())

	inv := Normalize(&draft, types.CurrencyTND)

	assert.Equal(t, types.DocumentTypeInvoice, inv.Type)
	assert.True(t, inv.TvaApplicable, "missing tvaApplicable means TVA applies")
	assert.Equal(t, types.CurrencyEUR, inv.Currency, "currency falls back to the company")
	assert.Equal(t, types.DocumentStatusPending, inv.Status)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, types.DefaultUnit, inv.Items[0].Unit)
	assert.Equal(t, "Km", inv.Items[1].Unit)
	assert.Equal(t, "2.5", inv.Items[0].Quantity.String())
	assert.Equal(t, "0.45", inv.Items[1].UnitPrice.String())
	assert.Equal(t, "19", inv.TvaRate.String())

	totals := inv.Totals()
	assert.Equal(t, "254.5", totals.Subtotal.String())
}

func TestNormalizeCurrencyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		fallback types.Currency
		want     types.Currency
	}{
		{
			name:  "document currency wins",
			draft: Draft{Currency: types.CurrencyEUR, CompanySnap: &company.Company{Currency: types.CurrencyTND}},
			want:  types.CurrencyEUR,
		},
		{
			name:  "company currency",
			draft: Draft{CompanySnap: &company.Company{Currency: types.CurrencyEUR}},
			want:  types.CurrencyEUR,
		},
		{
			name:     "configured fallback",
			draft:    Draft{CompanySnap: &company.Company{}},
			fallback: types.CurrencyEUR,
			want:     types.CurrencyEUR,
		},
		{
			name:  "TND when nothing is set",
			draft: Draft{},
			want:  types.CurrencyTND,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(&tt.draft, tt.fallback).Currency)
		})
	}
}

func TestNormalizeKeepsExplicitTvaFlag(t *testing.T) {
	off := false
	inv := Normalize(&Draft{TvaApplicable: &off, TvaRate: "19"}, "")

	assert.False(t, inv.TvaApplicable)
	assert.Equal(t, "19", inv.TvaRate.String(), "rate is kept for editing")
	assert.True(t, inv.Totals().TaxAmount.IsZero())
}

func TestNormalizeCopiesSnapshots(t *testing.T) {
	comp := &company.Company{ID: "comp_1", Name: "Before"}
	cli := &client.Client{ID: "cli_1", Name: "Client"}
	inv := Normalize(&Draft{CompanySnap: comp, ClientSnap: cli}, "")

	comp.Name = "After"
	cli.Name = "Renamed"

	assert.Equal(t, "Before", inv.CompanySnap.Name)
	assert.Equal(t, "Client", inv.ClientSnap.Name)
	assert.Equal(t, "cli_1", inv.ClientID, "client id is taken from the snapshot when missing")
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		ok    bool
	}{
		{name: "empty draft", draft: Draft{}, ok: true},
		{name: "quote", draft: Draft{Type: types.DocumentTypeQuote}, ok: true},
		{name: "unknown type", draft: Draft{Type: "avoir"}, ok: false},
		{name: "unknown status", draft: Draft{Status: "lost"}, ok: false},
		{name: "unknown currency", draft: Draft{Currency: "USD"}, ok: false},
		{name: "negative rate", draft: Draft{TvaRate: "-1"}, ok: false},
		{name: "garbage rate normalizes to zero", draft: Draft{TvaRate: "abc"}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestToDraftRoundTrip(t *testing.T) {
	var draft Draft
	require.NoError(t, json.Unmarshal([]byte(legacyRecord), &draft))
	inv := Normalize(&draft, types.CurrencyTND)

	again := Normalize(ToDraft(inv), types.CurrencyTND)

	assert.Equal(t, inv.Currency, again.Currency)
	assert.Equal(t, inv.TvaApplicable, again.TvaApplicable)
	assert.True(t, inv.Totals().GrandTotal.Equal(again.Totals().GrandTotal))
}

func TestNumberFor(t *testing.T) {
	assert.Equal(t, "2024-0001", NumberFor(2024, 0))
	assert.Equal(t, "2024-0012", NumberFor(2024, 11))
	assert.Equal(t, "2025-10000", NumberFor(2025, 9999))
	assert.Equal(t, "2026-0003", NextNumber(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 2))
}

func TestSequence(t *testing.T) {
	tests := []struct {
		number string
		want   int
	}{
		{"2024-0012", 12},
		{"2025-10000", 10000},
		{"2024-0000", 0},
		{"FAC-42", 0},
		{"24-0003", 0},
		{"2024-12a", 0},
		{"2024", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Sequence(tt.number), "number=%q", tt.number)
	}
}
