package ledger

import (
	"time"

	"nido/internal/core"
)

// BabySpend is the expense total attributed to one baby for a month.
type BabySpend struct {
	BabyID string
	Name   string
	Total  core.Money
}

// BabySpending sums the anchor month's expenses per baby. A transaction is
// attributed by its direct baby reference when present; the baby-category
// fallback only applies to transactions carrying no reference, so a record
// tagged both ways is counted exactly once. Category-only transactions are
// attributed when the family has a single baby and left unattributed
// otherwise, since there is no way to tell whose they are.
func BabySpending(txns []core.Transaction, babies []core.Baby, anchor time.Time) []BabySpend {
	totals := make(map[string]int64, len(babies))
	known := make(map[string]struct{}, len(babies))
	for _, b := range babies {
		known[b.ID] = struct{}{}
	}

	for _, tx := range txns {
		if tx.Type != core.TxExpense || !inPeriod(tx.Date, anchor, GranularityMonth) {
			continue
		}
		if tx.BabyID != "" {
			// Dangling references contribute nothing to any baby.
			if _, ok := known[tx.BabyID]; ok {
				totals[tx.BabyID] += tx.Amount.Cents
			}
			continue
		}
		if tx.Category.BabyRelated() && len(babies) == 1 {
			totals[babies[0].ID] += tx.Amount.Cents
		}
	}

	out := make([]BabySpend, 0, len(babies))
	for _, b := range babies {
		out = append(out, BabySpend{BabyID: b.ID, Name: b.Name, Total: core.Money{Cents: totals[b.ID]}})
	}
	return out
}
