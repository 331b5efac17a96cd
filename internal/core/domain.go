package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TxIncome    TxType = "income"
	TxExpense   TxType = "expense"
	TxDebt      TxType = "debt"
	TxRepayment TxType = "repayment"
)

type (
	// TxType gives a transaction its direction. Amounts are always stored
	// non-negative; the type decides which side of the ledger they land on.
	TxType string

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger record. At most one of BabyID, CardID
	// and LoanID is set, attributing the record to a sub-ledger by id. The
	// referenced entity may have been deleted; that is a valid state.
	Transaction struct {
		ID          string
		Amount      Money
		Type        TxType
		Category    Category
		Date        time.Time
		DueDate     time.Time // zero when not set
		Note        string
		UserID      string
		BabyID      string
		CardID      string
		LoanID      string
		Attachments []string
	}

	// CreditCardAccount describes a credit card. Balance is a baseline
	// offset; the outstanding amount is derived from linked transactions.
	CreditCardAccount struct {
		ID           string
		BankName     string
		CardName     string
		Last4        string
		CreditLimit  Money
		BillDay      int // 1-31
		RepaymentDay int // 1-31
		Balance      Money
	}

	LoanAccount struct {
		ID               string
		Name             string
		BankName         string
		TotalAmount      Money
		Balance          Money
		InterestDay      int // 1-31
		MonthlyRepayment Money
		Category         Category
	}

	// SavingsGoal earmarks cash. CurrentAmount may exceed TargetAmount;
	// over-saving is allowed and only clamped for progress display.
	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Icon          string
		Color         string
		Deadline      time.Time // zero when not set
	}

	// Baby is a tagging dimension for transactions, not a financial account.
	Baby struct {
		ID        string
		Name      string
		Avatar    string
		BirthDate time.Time // zero when not set
	}

	User struct {
		ID            string
		Name          string
		Avatar        string
		IsFamilyAdmin bool
		CanView       bool
		CanEdit       bool
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDay    = errors.New("day of month must be between 1 and 31")
	ErrEmptyName     = errors.New("empty name")
	ErrMissingUser   = errors.New("missing user id")
)

// Valid reports whether t is one of the four known transaction types.
func (t TxType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxDebt, TxRepayment:
		return true
	}
	return false
}

func (tx Transaction) Validate() error {
	if tx.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.UserID) == "" {
		return ErrMissingUser
	}
	if len(tx.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (c CreditCardAccount) Validate() error {
	if strings.TrimSpace(c.CardName) == "" {
		return ErrEmptyName
	}
	if c.CreditLimit.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !validDayOfMonth(c.BillDay) || !validDayOfMonth(c.RepaymentDay) {
		return ErrInvalidDay
	}
	if c.Balance.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (l LoanAccount) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if l.TotalAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if l.Balance.Cents < 0 || l.MonthlyRepayment.Cents < 0 {
		return ErrInvalidAmount
	}
	if !validDayOfMonth(l.InterestDay) {
		return ErrInvalidDay
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Baby) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Progress returns the goal completion ratio in percent, clamped to 100 for
// display. The stored CurrentAmount itself is never clamped.
func (g SavingsGoal) Progress() int {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	p := g.CurrentAmount.Cents * 100 / g.TargetAmount.Cents
	if p > 100 {
		p = 100
	}
	return int(p)
}

func validDayOfMonth(d int) bool {
	return d >= 1 && d <= 31
}
