package zenmoney

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"398,00", 398.00, false},
		{"398.00", 398.00, false},
		{"1234", 1234, false},
		{" 50,25 ", 50.25, false},
		{"1 000,50", 1000.50, false},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.NewFromFloat(tt.expected)) {
				t.Errorf("got %s, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildDescription(t *testing.T) {
	tests := []struct {
		name string
		row  models.ParsedRow
		want string
	}{
		{"payee and comment", models.ParsedRow{Payee: "Cafe", Comment: "lunch"}, "Cafe - lunch"},
		{"payee only", models.ParsedRow{Payee: " Cafe "}, "Cafe"},
		{"comment only", models.ParsedRow{Comment: "lunch"}, "lunch"},
		{"category fallback", models.ParsedRow{CategoryName: "Food"}, "Food"},
		{"generic fallback", models.ParsedRow{}, "Транзакция"},
		{"blank payee ignored", models.ParsedRow{Payee: "  ", Comment: "lunch"}, "lunch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildDescription(tt.row); got != tt.want {
				t.Errorf("buildDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyRowSidePresence(t *testing.T) {
	base := models.ParsedRow{Date: "2024-01-01", CreatedDate: "2024-01-01 00:00:00"}

	t.Run("outcome amount without account is not a side", func(t *testing.T) {
		row := base
		row.Outcome = "100,00"
		tx, transfer, err := classifyRow(row)
		if err != nil || tx != nil || transfer != nil {
			t.Errorf("got tx=%v transfer=%v err=%v, want all nil", tx, transfer, err)
		}
	})

	t.Run("account without amount is not a side", func(t *testing.T) {
		row := base
		row.OutcomeAccountName = "Wallet"
		tx, transfer, err := classifyRow(row)
		if err != nil || tx != nil || transfer != nil {
			t.Errorf("got tx=%v transfer=%v err=%v, want all nil", tx, transfer, err)
		}
	})

	t.Run("whitespace-only amount is blank", func(t *testing.T) {
		row := base
		row.Outcome = "   "
		row.OutcomeAccountName = "Wallet"
		tx, transfer, err := classifyRow(row)
		if err != nil || tx != nil || transfer != nil {
			t.Errorf("got tx=%v transfer=%v err=%v, want all nil", tx, transfer, err)
		}
	})

	t.Run("both sides make a transfer, never a transaction", func(t *testing.T) {
		row := base
		row.Outcome, row.OutcomeAccountName = "100,00", "Wallet"
		row.Income, row.IncomeAccountName = "100,00", "Card"
		tx, transfer, err := classifyRow(row)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx != nil {
			t.Error("transfer row classified as transaction")
		}
		if transfer == nil {
			t.Fatal("expected transfer")
		}
	})
}

func TestParseDateFallsBackToDateColumn(t *testing.T) {
	row := models.ParsedRow{Date: "2024-05-01"}
	got, err := parseDate(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != 5 || got.Day() != 1 {
		t.Errorf("got %v, want 2024-05-01", got)
	}
}
