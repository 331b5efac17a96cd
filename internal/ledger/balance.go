package ledger

import "nido/internal/core"

// CardOutstanding is the card's baseline balance plus linked debt flows
// minus linked repayments, floored at zero. Transactions referencing a
// deleted card simply find no account here; they still count in the global
// sums below.
func CardOutstanding(card core.CreditCardAccount, txns []core.Transaction) core.Money {
	cents := card.Balance.Cents
	for _, tx := range txns {
		if tx.CardID != card.ID {
			continue
		}
		switch tx.Type {
		case core.TxDebt:
			cents += tx.Amount.Cents
		case core.TxRepayment:
			cents -= tx.Amount.Cents
		}
	}
	if cents < 0 {
		cents = 0
	}
	return core.Money{Cents: cents}
}

// LoanOutstanding follows the same signed-flow rule as cards.
func LoanOutstanding(loan core.LoanAccount, txns []core.Transaction) core.Money {
	cents := loan.Balance.Cents
	for _, tx := range txns {
		if tx.LoanID != loan.ID {
			continue
		}
		switch tx.Type {
		case core.TxDebt:
			cents += tx.Amount.Cents
		case core.TxRepayment:
			cents -= tx.Amount.Cents
		}
	}
	if cents < 0 {
		cents = 0
	}
	return core.Money{Cents: cents}
}

// CategoryDebt sums debt minus repayment flows for the given category
// codes. The result is deliberately not floored: a negative value signals
// over-repayment and is surfaced as-is.
func CategoryDebt(txns []core.Transaction, codes ...core.CategoryCode) core.Money {
	set := make(map[core.CategoryCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	var cents int64
	for _, tx := range txns {
		if _, ok := set[tx.Category.Code]; !ok {
			continue
		}
		switch tx.Type {
		case core.TxDebt:
			cents += tx.Amount.Cents
		case core.TxRepayment:
			cents -= tx.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// TotalDebt is all debt minus all repayments over the given (already
// visibility-scoped) transactions. Not floored.
func TotalDebt(txns []core.Transaction) core.Money {
	var cents int64
	for _, tx := range txns {
		switch tx.Type {
		case core.TxDebt:
			cents += tx.Amount.Cents
		case core.TxRepayment:
			cents -= tx.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// CashBalance treats borrowed money as increasing liquid cash and
// repayments as decreasing it: (income + debt) - (expense + repaid). Debt
// proceeds are assumed spent into the same cash pool, not tracked apart.
func CashBalance(txns []core.Transaction) core.Money {
	var cents int64
	for _, tx := range txns {
		switch tx.Type {
		case core.TxIncome, core.TxDebt:
			cents += tx.Amount.Cents
		case core.TxExpense, core.TxRepayment:
			cents -= tx.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// FlexibleCash is the cash balance minus everything earmarked in savings
// goals. It can go negative: goal deposits are not gated on it.
func FlexibleCash(txns []core.Transaction, goals []core.SavingsGoal) core.Money {
	cents := CashBalance(txns).Cents
	for _, g := range goals {
		cents -= g.CurrentAmount.Cents
	}
	return core.Money{Cents: cents}
}
