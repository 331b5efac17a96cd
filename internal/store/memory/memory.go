// Package memory is the default zero-dependency backend: everything lives
// in process, guarded by one mutex. Useful for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"nido/internal/core"
	"nido/internal/ledger"
	"nido/internal/store"
)

type Store struct {
	mu     sync.Mutex
	users  []core.User
	babies []core.Baby
	cards  []core.CreditCardAccount
	loans  []core.LoanAccount
	goals  []core.SavingsGoal
	txns   []core.Transaction
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.txns = append(s.txns, tx)
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == tx.ID {
			s.txns[i] = tx
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txns {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateCard(_ context.Context, c core.CreditCardAccount) (core.CreditCardAccount, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCardAccount{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.cards = append(s.cards, c)
	return c, nil
}

func (s *Store) UpdateCard(_ context.Context, c core.CreditCardAccount) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID == c.ID {
			s.cards[i] = c
			return nil
		}
	}
	return store.ErrNotFound
}

// DeleteCard removes the account only. Transactions referencing it keep
// their dangling CardID on purpose.
func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CreateLoan(_ context.Context, l core.LoanAccount) (core.LoanAccount, error) {
	if err := l.Validate(); err != nil {
		return core.LoanAccount{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.loans = append(s.loans, l)
	return l, nil
}

func (s *Store) UpdateLoan(_ context.Context, l core.LoanAccount) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loans {
		if s.loans[i].ID == l.ID {
			s.loans[i] = l
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteLoan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CreateGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			s.goals[i] = g
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DepositToGoal(_ context.Context, id string, amount core.Money) (core.SavingsGoal, error) {
	if amount.Cents <= 0 {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].CurrentAmount.Cents += amount.Cents
			return s.goals[i], nil
		}
	}
	return core.SavingsGoal{}, store.ErrNotFound
}

func (s *Store) CreateBaby(_ context.Context, b core.Baby) (core.Baby, error) {
	if err := b.Validate(); err != nil {
		return core.Baby{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.babies = append(s.babies, b)
	return b, nil
}

func (s *Store) UpdateBaby(_ context.Context, b core.Baby) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.babies {
		if s.babies[i].ID == b.ID {
			s.babies[i] = b
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteBaby(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.babies {
		if s.babies[i].ID == id {
			s.babies = append(s.babies[:i], s.babies[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users = append(s.users, u)
	return u, nil
}

// Snapshot copies every collection so the aggregation engine can treat the
// result as immutable.
func (s *Store) Snapshot(_ context.Context) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Snapshot{
		Users:        append([]core.User(nil), s.users...),
		Babies:       append([]core.Baby(nil), s.babies...),
		Cards:        append([]core.CreditCardAccount(nil), s.cards...),
		Loans:        append([]core.LoanAccount(nil), s.loans...),
		Goals:        append([]core.SavingsGoal(nil), s.goals...),
		Transactions: append([]core.Transaction(nil), s.txns...),
	}, nil
}
