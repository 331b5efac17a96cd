package ledger

import (
	"sort"
	"time"

	"nido/internal/core"
)

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

type (
	Granularity string

	// PeriodTotals are the four signed-flow sums for one period.
	PeriodTotals struct {
		Income     core.Money
		Expense    core.Money
		DebtIssued core.Money
		DebtRepaid core.Money
	}

	// Bucket is one sub-period for charting: a calendar day for month
	// granularity, a month for year granularity. Buckets with no
	// transactions are present with all-zero sums.
	Bucket struct {
		Index      int // 1-based day of month, or month number
		Income     core.Money
		Expense    core.Money
		DebtIssued core.Money
		DebtRepaid core.Money
	}

	CategoryTotal struct {
		Category core.Category
		Total    core.Money
	}

	// PeriodReport is the full derived view for one anchor period: totals
	// for the period and the one immediately before it, percent deltas,
	// a dense bucket series and the expense category breakdown.
	PeriodReport struct {
		Granularity     Granularity
		Anchor          time.Time
		Current         PeriodTotals
		Previous        PeriodTotals
		IncomeDelta     float64
		ExpenseDelta    float64
		DebtIssuedDelta float64
		DebtRepaidDelta float64
		Buckets         []Bucket
		Categories      []CategoryTotal
	}
)

// Aggregate buckets the transactions into the period containing anchor and
// the immediately preceding one. Period membership compares calendar
// coordinates, so month arithmetic is anchored to month starts and is
// immune to 28/29/30/31-day skew. Transactions with a zero date belong to
// no period.
func Aggregate(txns []core.Transaction, anchor time.Time, g Granularity) PeriodReport {
	report := PeriodReport{Granularity: g, Anchor: anchor}

	prevAnchor := previousAnchor(anchor, g)
	report.Current = periodTotals(txns, anchor, g)
	report.Previous = periodTotals(txns, prevAnchor, g)

	report.IncomeDelta = percentDelta(report.Current.Income, report.Previous.Income)
	report.ExpenseDelta = percentDelta(report.Current.Expense, report.Previous.Expense)
	report.DebtIssuedDelta = percentDelta(report.Current.DebtIssued, report.Previous.DebtIssued)
	report.DebtRepaidDelta = percentDelta(report.Current.DebtRepaid, report.Previous.DebtRepaid)

	report.Buckets = bucketSeries(txns, anchor, g)
	report.Categories = categoryBreakdown(txns, anchor, g)
	return report
}

func previousAnchor(anchor time.Time, g Granularity) time.Time {
	if g == GranularityYear {
		return time.Date(anchor.Year()-1, time.January, 1, 0, 0, 0, 0, anchor.Location())
	}
	// First of the anchor month minus one month; never skews on short months.
	return time.Date(anchor.Year(), anchor.Month()-1, 1, 0, 0, 0, 0, anchor.Location())
}

func inPeriod(txDate, anchor time.Time, g Granularity) bool {
	if txDate.IsZero() {
		return false
	}
	if txDate.Year() != anchor.Year() {
		return false
	}
	return g == GranularityYear || txDate.Month() == anchor.Month()
}

func periodTotals(txns []core.Transaction, anchor time.Time, g Granularity) PeriodTotals {
	var t PeriodTotals
	for _, tx := range txns {
		if !inPeriod(tx.Date, anchor, g) {
			continue
		}
		switch tx.Type {
		case core.TxIncome:
			t.Income.Cents += tx.Amount.Cents
		case core.TxExpense:
			t.Expense.Cents += tx.Amount.Cents
		case core.TxDebt:
			t.DebtIssued.Cents += tx.Amount.Cents
		case core.TxRepayment:
			t.DebtRepaid.Cents += tx.Amount.Cents
		}
	}
	return t
}

// percentDelta is defined as 0 when there is no prior baseline, never NaN
// or Inf.
func percentDelta(curr, prev core.Money) float64 {
	if prev.Cents <= 0 {
		return 0
	}
	return float64(curr.Cents-prev.Cents) / float64(prev.Cents) * 100
}

func bucketSeries(txns []core.Transaction, anchor time.Time, g Granularity) []Bucket {
	n := 12
	if g == GranularityMonth {
		n = daysInMonth(anchor)
	}
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Index = i + 1
	}
	for _, tx := range txns {
		if !inPeriod(tx.Date, anchor, g) {
			continue
		}
		idx := tx.Date.Day()
		if g == GranularityYear {
			idx = int(tx.Date.Month())
		}
		if idx < 1 || idx > n {
			continue
		}
		b := &buckets[idx-1]
		switch tx.Type {
		case core.TxIncome:
			b.Income.Cents += tx.Amount.Cents
		case core.TxExpense:
			b.Expense.Cents += tx.Amount.Cents
		case core.TxDebt:
			b.DebtIssued.Cents += tx.Amount.Cents
		case core.TxRepayment:
			b.DebtRepaid.Cents += tx.Amount.Cents
		}
	}
	return buckets
}

// categoryBreakdown sums expense transactions per category label, sorted by
// descending total. Equal totals stay in first-encounter order.
func categoryBreakdown(txns []core.Transaction, anchor time.Time, g Granularity) []CategoryTotal {
	sums := map[string]int64{}
	cats := map[string]core.Category{}
	var order []string
	for _, tx := range txns {
		if tx.Type != core.TxExpense || !inPeriod(tx.Date, anchor, g) {
			continue
		}
		label := tx.Category.Label()
		if _, seen := sums[label]; !seen {
			order = append(order, label)
			cats[label] = tx.Category
		}
		sums[label] += tx.Amount.Cents
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, label := range order {
		out = append(out, CategoryTotal{Category: cats[label], Total: core.Money{Cents: sums[label]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}
