// Package store defines the ports between the application and its entity
// backends. The aggregation engine never touches these: callers read a
// snapshot here and pass it in by value.
package store

import (
	"context"
	"errors"

	"nido/internal/core"
	"nido/internal/ledger"
)

var ErrNotFound = errors.New("not found")

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		// DeleteTransaction removes by id. Deleting never cascades and
		// never reattributes other records.
		DeleteTransaction(ctx context.Context, id string) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	CardStore interface {
		CreateCard(ctx context.Context, c core.CreditCardAccount) (core.CreditCardAccount, error)
		UpdateCard(ctx context.Context, c core.CreditCardAccount) error
		DeleteCard(ctx context.Context, id string) error
	}

	LoanStore interface {
		CreateLoan(ctx context.Context, l core.LoanAccount) (core.LoanAccount, error)
		UpdateLoan(ctx context.Context, l core.LoanAccount) error
		DeleteLoan(ctx context.Context, id string) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		UpdateGoal(ctx context.Context, g core.SavingsGoal) error
		DeleteGoal(ctx context.Context, id string) error
		// DepositToGoal raises the goal's current amount. It performs no
		// flexible-cash check: nominal over-allocation is allowed.
		DepositToGoal(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, error)
	}

	BabyStore interface {
		CreateBaby(ctx context.Context, b core.Baby) (core.Baby, error)
		UpdateBaby(ctx context.Context, b core.Baby) error
		DeleteBaby(ctx context.Context, id string) error
	}

	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
	}

	// SnapshotReader exposes the six collections as one order-stable
	// snapshot for the aggregation engine.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (ledger.Snapshot, error)
	}

	// Store is the full backend a server runs against.
	Store interface {
		TransactionStore
		CardStore
		LoanStore
		GoalStore
		BabyStore
		UserStore
		SnapshotReader
		Close() error
	}
)
