package ledger

import (
	"testing"
	"time"

	"nido/internal/core"
)

func TestReminderWindowBoundaries(t *testing.T) {
	now := time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)

	card := func(repayDay int, balanceCents int64) core.CreditCardAccount {
		return core.CreditCardAccount{
			ID:           "c1",
			CardName:     "Everyday",
			BillDay:      28, // out of every window in these cases
			RepaymentDay: repayDay,
			Balance:      core.Money{Cents: balanceCents},
		}
	}

	t.Run("exactly 10 days out is included", func(t *testing.T) {
		rs := UpcomingReminders([]core.CreditCardAccount{card(15, 100_00)}, nil, nil, now)
		if len(rs) != 1 {
			t.Fatalf("got %d reminders, want 1", len(rs))
		}
		if rs[0].Kind != ReminderCardRepayment || rs[0].DaysLeft != 10 {
			t.Fatalf("reminder = %+v", rs[0])
		}
	})

	t.Run("11 days out is excluded", func(t *testing.T) {
		rs := UpcomingReminders([]core.CreditCardAccount{card(16, 100_00)}, nil, nil, now)
		if len(rs) != 0 {
			t.Fatalf("got %d reminders, want 0", len(rs))
		}
	})

	t.Run("zero balance never reminds regardless of days", func(t *testing.T) {
		rs := UpcomingReminders([]core.CreditCardAccount{card(5, 0)}, nil, nil, now)
		if len(rs) != 0 {
			t.Fatalf("got %d reminders, want 0", len(rs))
		}
	})
}

func TestReminderBillWindow(t *testing.T) {
	now := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	card := core.CreditCardAccount{ID: "c1", CardName: "Everyday", BillDay: 8, RepaymentDay: 28}

	rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, nil, now)
	if len(rs) != 1 || rs[0].Kind != ReminderBill || rs[0].DaysLeft != 3 {
		t.Fatalf("reminders = %+v", rs)
	}

	card.BillDay = 9 // 4 days out, past the 3-day window
	if rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, nil, now); len(rs) != 0 {
		t.Fatalf("got %d reminders, want 0", len(rs))
	}
}

func TestReminderRollsToNextMonthWithClamping(t *testing.T) {
	// April 29, bill day 31: April has 30 days, so day 31 clamps to
	// April 30, one day out.
	now := time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC)
	card := core.CreditCardAccount{ID: "c1", BillDay: 31, RepaymentDay: 15}
	rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, nil, now)
	if len(rs) != 1 || rs[0].DaysLeft != 1 {
		t.Fatalf("reminders = %+v", rs)
	}

	// May 31, repayment day 15: already passed, rolls to June 15 which is
	// past the 10-day window, so nothing fires.
	now = time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	card = core.CreditCardAccount{ID: "c1", BillDay: 28, RepaymentDay: 15, Balance: core.Money{Cents: 1_00}}
	if rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, nil, now); len(rs) != 0 {
		t.Fatalf("reminders = %+v, want none", rs)
	}
}

func TestReminderDaysAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// Clocks spring forward on March 10, 2024, so March 8 to March 11 is
	// three calendar days but only 71 hours.
	now := time.Date(2024, time.March, 8, 9, 0, 0, 0, loc)
	card := core.CreditCardAccount{ID: "c1", CardName: "Everyday", BillDay: 11, RepaymentDay: 25}
	rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, nil, now)
	if len(rs) != 1 || rs[0].Kind != ReminderBill {
		t.Fatalf("reminders = %+v", rs)
	}
	if rs[0].DaysLeft != 3 {
		t.Fatalf("DaysLeft = %d, want 3", rs[0].DaysLeft)
	}
}

func TestReminderSortingAndTieOrder(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	cards := []core.CreditCardAccount{
		{ID: "c1", CardName: "A", BillDay: 3, RepaymentDay: 28, Balance: core.Money{Cents: 1_00}},
	}
	loans := []core.LoanAccount{
		{ID: "l1", Name: "Mortgage", InterestDay: 3, MonthlyRepayment: core.Money{Cents: 900_00}},
		{ID: "l2", Name: "Car", InterestDay: 2, MonthlyRepayment: core.Money{Cents: 200_00}},
	}
	rs := UpcomingReminders(cards, loans, nil, now)
	if len(rs) != 3 {
		t.Fatalf("got %d reminders, want 3: %+v", len(rs), rs)
	}
	// l2 due in 1 day; card bill and l1 tie at 2 days, card first.
	if rs[0].AccountID != "l2" {
		t.Fatalf("first reminder = %+v", rs[0])
	}
	if rs[1].AccountID != "c1" || rs[1].Kind != ReminderBill {
		t.Fatalf("tie must keep cards before loans: %+v", rs[1])
	}
	if rs[2].AccountID != "l1" {
		t.Fatalf("third reminder = %+v", rs[2])
	}
}

func TestReminderCarriesRepaymentContext(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	card := core.CreditCardAccount{
		ID: "c1", CardName: "Everyday", BillDay: 20, RepaymentDay: 5,
		Balance: core.Money{Cents: 100_00},
	}
	linked := txCat(core.TxDebt, 50_00, day(2024, time.May, 20), core.CodeCreditCard)
	linked.CardID = "c1"

	rs := UpcomingReminders([]core.CreditCardAccount{card}, nil, []core.Transaction{linked}, now)
	if len(rs) != 1 {
		t.Fatalf("got %d reminders, want 1", len(rs))
	}
	r := rs[0]
	if r.Amount.Cents != 150_00 {
		t.Fatalf("suggested amount = %d, want outstanding 15000", r.Amount.Cents)
	}
	if r.Category.Code != core.CodeCreditCard || r.AccountID != "c1" {
		t.Fatalf("reminder context incomplete: %+v", r)
	}
}
