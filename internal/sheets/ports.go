// Package sheets defines the ports for mirroring the ledger into the
// shared family spreadsheet.
package sheets

import (
	"context"

	"nido/internal/core"
)

// TransactionWriter appends a transaction row and returns the cell range
// it landed in.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}

// TransactionDeleter removes the row previously appended for the given
// transaction id.
type TransactionDeleter interface {
	DeleteByID(ctx context.Context, id string) error
}

type TransactionMirror interface {
	TransactionWriter
	TransactionDeleter
}
