package ledger

import (
	"time"

	"nido/internal/core"
)

// Overview is the complete derived state for one snapshot, scope and
// moment in time. It is what the dashboard endpoint serves.
type Overview struct {
	Period       PeriodReport
	TotalDebt    core.Money
	CashBalance  core.Money
	FlexibleCash core.Money
	CardBalances []AccountBalance
	LoanBalances []AccountBalance
	Streak       int
	Reminders    []Reminder
	Babies       []BabySpend
}

type AccountBalance struct {
	AccountID   string
	AccountName string
	Outstanding core.Money
}

// BuildOverview runs the filtered snapshot through every aggregator. Card
// and loan outstanding amounts are computed over the account's full linked
// history, not the anchor period, matching how statements work.
func BuildOverview(snap Snapshot, scope Scope, query string, anchor time.Time, g Granularity, now time.Time) Overview {
	visible := Filter(snap.Transactions, scope, query)

	ov := Overview{
		Period:       Aggregate(visible, anchor, g),
		TotalDebt:    TotalDebt(visible),
		CashBalance:  CashBalance(visible),
		FlexibleCash: FlexibleCash(visible, snap.Goals),
		Streak:       Streak(visible, now),
		Reminders:    UpcomingReminders(snap.Cards, snap.Loans, snap.Transactions, now),
		Babies:       BabySpending(visible, snap.Babies, anchor),
	}
	for _, card := range snap.Cards {
		ov.CardBalances = append(ov.CardBalances, AccountBalance{
			AccountID:   card.ID,
			AccountName: card.CardName,
			Outstanding: CardOutstanding(card, snap.Transactions),
		})
	}
	for _, loan := range snap.Loans {
		ov.LoanBalances = append(ov.LoanBalances, AccountBalance{
			AccountID:   loan.ID,
			AccountName: loan.Name,
			Outstanding: LoanOutstanding(loan, snap.Transactions),
		})
	}
	return ov
}
