package ledger

import (
	"testing"
	"time"

	"nido/internal/core"
)

// The June 2024 scenario: income 500, expense 100, debt 200, repayment 50.
func scenarioTxns() []core.Transaction {
	return []core.Transaction{
		txCat(core.TxExpense, 100_00, day(2024, time.June, 1), core.CodeFood),
		txCat(core.TxIncome, 500_00, day(2024, time.June, 1), core.CodeSalary),
		txCat(core.TxDebt, 200_00, day(2024, time.June, 5), core.CodeCreditCard),
		txCat(core.TxRepayment, 50_00, day(2024, time.June, 10), core.CodeCreditCard),
	}
}

func TestAggregateMonthTotals(t *testing.T) {
	report := Aggregate(scenarioTxns(), day(2024, time.June, 15), GranularityMonth)

	want := PeriodTotals{
		Income:     core.Money{Cents: 500_00},
		Expense:    core.Money{Cents: 100_00},
		DebtIssued: core.Money{Cents: 200_00},
		DebtRepaid: core.Money{Cents: 50_00},
	}
	if report.Current != want {
		t.Fatalf("current totals = %+v, want %+v", report.Current, want)
	}
	if report.Previous != (PeriodTotals{}) {
		t.Fatalf("previous totals should be empty, got %+v", report.Previous)
	}
}

func TestAggregatePreviousPeriodAndDelta(t *testing.T) {
	txns := []core.Transaction{
		tx(core.TxExpense, 200_00, day(2024, time.May, 31)),
		tx(core.TxExpense, 300_00, day(2024, time.June, 2)),
	}
	report := Aggregate(txns, day(2024, time.June, 30), GranularityMonth)

	if report.Previous.Expense.Cents != 200_00 {
		t.Fatalf("previous expense = %d", report.Previous.Expense.Cents)
	}
	if report.ExpenseDelta != 50 {
		t.Fatalf("expense delta = %v, want 50", report.ExpenseDelta)
	}
	// No income either period: delta defined as 0, not NaN.
	if report.IncomeDelta != 0 {
		t.Fatalf("income delta = %v, want 0", report.IncomeDelta)
	}
}

func TestAggregateJanuaryRollsToPreviousYear(t *testing.T) {
	txns := []core.Transaction{
		tx(core.TxIncome, 100_00, day(2023, time.December, 31)),
		tx(core.TxIncome, 150_00, day(2024, time.January, 3)),
	}
	report := Aggregate(txns, day(2024, time.January, 31), GranularityMonth)
	if report.Previous.Income.Cents != 100_00 {
		t.Fatalf("previous income = %d, want December 2023 sum", report.Previous.Income.Cents)
	}
}

func TestAggregateYearGranularity(t *testing.T) {
	txns := []core.Transaction{
		tx(core.TxExpense, 10_00, day(2024, time.February, 1)),
		tx(core.TxExpense, 20_00, day(2024, time.November, 30)),
		tx(core.TxExpense, 40_00, day(2023, time.July, 4)),
	}
	report := Aggregate(txns, day(2024, time.June, 1), GranularityYear)
	if report.Current.Expense.Cents != 30_00 {
		t.Fatalf("current year expense = %d", report.Current.Expense.Cents)
	}
	if report.Previous.Expense.Cents != 40_00 {
		t.Fatalf("previous year expense = %d", report.Previous.Expense.Cents)
	}
	if len(report.Buckets) != 12 {
		t.Fatalf("year buckets = %d, want 12", len(report.Buckets))
	}
	if report.Buckets[1].Expense.Cents != 10_00 || report.Buckets[10].Expense.Cents != 20_00 {
		t.Fatalf("month buckets misplaced: %+v", report.Buckets)
	}
}

func TestAggregateDenseDayBuckets(t *testing.T) {
	report := Aggregate(scenarioTxns(), day(2024, time.June, 1), GranularityMonth)
	if len(report.Buckets) != 30 {
		t.Fatalf("June has 30 buckets, got %d", len(report.Buckets))
	}
	// Empty days are present with zero sums, not omitted.
	if report.Buckets[2].Index != 3 || report.Buckets[2].Expense.Cents != 0 {
		t.Fatalf("bucket 3 should be zero: %+v", report.Buckets[2])
	}

	// Sum-consistency: daily expense buckets add up to the period expense.
	var sum int64
	for _, b := range report.Buckets {
		sum += b.Expense.Cents
	}
	if sum != report.Current.Expense.Cents {
		t.Fatalf("bucket sum %d != period expense %d", sum, report.Current.Expense.Cents)
	}
}

func TestAggregateFebruaryLeapYear(t *testing.T) {
	report := Aggregate(nil, day(2024, time.February, 10), GranularityMonth)
	if len(report.Buckets) != 29 {
		t.Fatalf("February 2024 has 29 buckets, got %d", len(report.Buckets))
	}
	report = Aggregate(nil, day(2023, time.February, 10), GranularityMonth)
	if len(report.Buckets) != 28 {
		t.Fatalf("February 2023 has 28 buckets, got %d", len(report.Buckets))
	}
}

func TestAggregateIgnoresZeroDates(t *testing.T) {
	txns := []core.Transaction{
		tx(core.TxExpense, 100_00, time.Time{}),
		tx(core.TxExpense, 50_00, day(2024, time.June, 1)),
	}
	report := Aggregate(txns, day(2024, time.June, 1), GranularityMonth)
	if report.Current.Expense.Cents != 50_00 {
		t.Fatalf("zero-date transaction must not join any period: %d", report.Current.Expense.Cents)
	}
}

func TestCategoryBreakdownOrdering(t *testing.T) {
	txns := []core.Transaction{
		txCat(core.TxExpense, 30_00, day(2024, time.June, 1), core.CodeFood),
		txCat(core.TxExpense, 80_00, day(2024, time.June, 2), core.CodeTransport),
		txCat(core.TxExpense, 80_00, day(2024, time.June, 3), core.CodeMedical),
		txCat(core.TxIncome, 900_00, day(2024, time.June, 3), core.CodeSalary),
		txCat(core.TxExpense, 50_00, day(2024, time.June, 4), core.CodeTransport),
	}
	report := Aggregate(txns, day(2024, time.June, 1), GranularityMonth)
	if len(report.Categories) != 3 {
		t.Fatalf("got %d categories, want 3 (income excluded)", len(report.Categories))
	}
	if report.Categories[0].Category.Code != core.CodeTransport || report.Categories[0].Total.Cents != 130_00 {
		t.Fatalf("top category wrong: %+v", report.Categories[0])
	}
	// medical(80) encountered after transport but before being overtaken;
	// food(30) last.
	if report.Categories[1].Category.Code != core.CodeMedical {
		t.Fatalf("second category wrong: %+v", report.Categories[1])
	}
	if report.Categories[2].Category.Code != core.CodeFood {
		t.Fatalf("third category wrong: %+v", report.Categories[2])
	}
}

func TestCategoryBreakdownKeepsRawLabels(t *testing.T) {
	a := tx(core.TxExpense, 10_00, day(2024, time.June, 1))
	a.Category = core.ParseCategory("bubble tea")
	b := tx(core.TxExpense, 5_00, day(2024, time.June, 2))
	b.Category = core.ParseCategory("street food")
	report := Aggregate([]core.Transaction{a, b}, day(2024, time.June, 1), GranularityMonth)
	if len(report.Categories) != 2 {
		t.Fatalf("distinct raw labels must not collapse, got %d entries", len(report.Categories))
	}
	if report.Categories[0].Category.Label() != "bubble tea" {
		t.Fatalf("raw label lost: %+v", report.Categories[0])
	}
}
