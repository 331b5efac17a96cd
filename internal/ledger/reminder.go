package ledger

import (
	"sort"
	"time"

	"nido/internal/core"
)

const (
	ReminderBill          ReminderKind = "bill"
	ReminderCardRepayment ReminderKind = "card_repayment"
	ReminderLoanInterest  ReminderKind = "loan_interest"

	billWindowDays      = 3
	repaymentWindowDays = 10
	interestWindowDays  = 7
)

type (
	ReminderKind string

	// Reminder carries enough context for the caller to pre-fill a
	// repayment transaction; it never creates one itself.
	Reminder struct {
		Kind        ReminderKind
		AccountID   string
		AccountName string
		Due         time.Time
		DaysLeft    int
		Amount      core.Money
		Category    core.Category
	}
)

// UpcomingReminders derives due-date alerts from account day-of-month
// fields relative to now. Windows are fixed: bill day within 3 days, card
// repayment within 10 (only while the card carries a balance), loan
// interest within 7. The merged list is ascending by days left; ties keep
// insertion order, cards before loans.
func UpcomingReminders(cards []core.CreditCardAccount, loans []core.LoanAccount, txns []core.Transaction, now time.Time) []Reminder {
	var out []Reminder

	for _, card := range cards {
		if due, left, ok := nextOccurrence(card.BillDay, now); ok && left <= billWindowDays {
			out = append(out, Reminder{
				Kind:        ReminderBill,
				AccountID:   card.ID,
				AccountName: card.CardName,
				Due:         due,
				DaysLeft:    left,
				Amount:      CardOutstanding(card, txns),
				Category:    core.NewCategory(core.CodeCreditCard),
			})
		}
		if card.Balance.Cents <= 0 {
			continue
		}
		if due, left, ok := nextOccurrence(card.RepaymentDay, now); ok && left <= repaymentWindowDays {
			out = append(out, Reminder{
				Kind:        ReminderCardRepayment,
				AccountID:   card.ID,
				AccountName: card.CardName,
				Due:         due,
				DaysLeft:    left,
				Amount:      CardOutstanding(card, txns),
				Category:    core.NewCategory(core.CodeCreditCard),
			})
		}
	}

	for _, loan := range loans {
		due, left, ok := nextOccurrence(loan.InterestDay, now)
		if !ok || left > interestWindowDays {
			continue
		}
		amount := loan.MonthlyRepayment
		if amount.Cents == 0 {
			amount = LoanOutstanding(loan, txns)
		}
		out = append(out, Reminder{
			Kind:        ReminderLoanInterest,
			AccountID:   loan.ID,
			AccountName: loan.Name,
			Due:         due,
			DaysLeft:    left,
			Amount:      amount,
			Category:    loan.Category,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}

// nextOccurrence finds the next calendar date whose day-of-month equals
// target, clamped to the last day of short months. If the day has already
// passed this month it rolls to the next month.
func nextOccurrence(target int, now time.Time) (time.Time, int, bool) {
	if target < 1 || target > 31 {
		return time.Time{}, 0, false
	}
	today := dayOf(now)

	due := dateWithClampedDay(today.Year(), today.Month(), target, now.Location())
	if due.Before(today) {
		next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, now.Location())
		due = dateWithClampedDay(next.Year(), next.Month(), target, now.Location())
	}
	// Count calendar days instead of dividing hours: a DST transition
	// between today and the due date would make a day shorter than 24h.
	left := 0
	for d := today; d.Before(due); d = d.AddDate(0, 0, 1) {
		left++
	}
	return due, left, true
}

func dateWithClampedDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
