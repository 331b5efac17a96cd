package ledger

import (
	"time"

	"nido/internal/core"
)

// Shared builders for the aggregation tests.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(t core.TxType, cents int64, date time.Time) core.Transaction {
	return core.Transaction{
		ID:     "tx",
		Amount: core.Money{Cents: cents},
		Type:   t,
		Date:   date,
		UserID: "u1",
	}
}

func txCat(t core.TxType, cents int64, date time.Time, cat core.CategoryCode) core.Transaction {
	r := tx(t, cents, date)
	r.Category = core.NewCategory(cat)
	return r
}
