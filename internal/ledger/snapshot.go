// Package ledger is the aggregation engine: pure functions that fold an
// immutable snapshot of the entity collections into derived views (period
// totals, balances, streaks, reminders). Nothing in this package reads the
// clock or mutates its inputs; callers pass "now" explicitly and re-run the
// aggregation whenever the underlying data changes.
package ledger

import (
	"time"

	"nido/internal/core"
)

// Snapshot is a read-only view of the entity collections. The engine never
// mutates it and retains no reference to it between calls.
type Snapshot struct {
	Users        []core.User
	Babies       []core.Baby
	Cards        []core.CreditCardAccount
	Loans        []core.LoanAccount
	Goals        []core.SavingsGoal
	Transactions []core.Transaction
}

const (
	// ScopeSelf keeps only the current user's transactions.
	ScopeSelf ScopeKind = "self"
	// ScopeFamily keeps every family member's transactions.
	ScopeFamily ScopeKind = "family"
)

type (
	ScopeKind string

	// Scope is the visibility dimension for all aggregations. UserID is
	// only consulted for ScopeSelf.
	Scope struct {
		Kind   ScopeKind
		UserID string
	}
)

// dayOf truncates a timestamp to its calendar day. Every calculator in this
// package that reasons about days goes through this one helper.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the month containing t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
