package core

import (
	"testing"
	"time"
)

func TestTxTypeValid(t *testing.T) {
	for _, tt := range []TxType{TxIncome, TxExpense, TxDebt, TxRepayment} {
		if !tt.Valid() {
			t.Fatalf("%s should be valid", tt)
		}
	}
	if TxType("transfer").Valid() {
		t.Fatalf("unknown type should be invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount: Money{Cents: 100},
		Type:   TxExpense,
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UserID: "u1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: -1}, Type: TxExpense, UserID: "u1"},
		{Amount: Money{Cents: 1}, Type: TxType("transfer"), UserID: "u1"},
		{Amount: Money{Cents: 1}, Type: TxExpense, UserID: "  "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCreditCardValidate(t *testing.T) {
	card := CreditCardAccount{
		CardName:     "Everyday",
		CreditLimit:  Money{Cents: 500_000},
		BillDay:      5,
		RepaymentDay: 25,
	}
	if err := card.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	card.BillDay = 0
	if err := card.Validate(); err == nil {
		t.Fatalf("expected error for bill day 0")
	}
	card.BillDay = 5
	card.RepaymentDay = 32
	if err := card.Validate(); err == nil {
		t.Fatalf("expected error for repayment day 32")
	}
}

func TestGoalProgressClampsDisplayOnly(t *testing.T) {
	g := SavingsGoal{
		Name:          "Trip",
		TargetAmount:  Money{Cents: 10_000},
		CurrentAmount: Money{Cents: 15_000},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("over-saving must validate, got %v", err)
	}
	if got := g.Progress(); got != 100 {
		t.Fatalf("Progress() = %d, want 100", got)
	}
	// Stored amount stays unclamped.
	if g.CurrentAmount.Cents != 15_000 {
		t.Fatalf("CurrentAmount must not be clamped")
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in    string
		code  CategoryCode
		label string
	}{
		{"food", CodeFood, "food"},
		{"Credit_Card", CodeCreditCard, "credit_card"},
		{"", CodeOther, "other"},
		{"bubble tea", CodeOther, "bubble tea"},
	}
	for i, tc := range cases {
		got := ParseCategory(tc.in)
		if got.Code != tc.code {
			t.Fatalf("case %d: code = %s, want %s", i, got.Code, tc.code)
		}
		if got.Label() != tc.label {
			t.Fatalf("case %d: label = %q, want %q", i, got.Label(), tc.label)
		}
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	orig := ParseCategory("bubble tea")
	b, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Category
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Label() != "bubble tea" || back.Code != CodeOther {
		t.Fatalf("raw label lost in round trip: %+v", back)
	}
}
