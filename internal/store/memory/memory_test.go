package memory

import (
	"context"
	"testing"
	"time"

	"nido/internal/core"
)

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 100_00},
		Type:   core.TxExpense,
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UserID: "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("create must assign an id")
	}

	created.Note = "groceries"
	if err := s.UpdateTransaction(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetTransaction(ctx, created.ID)
	if err != nil || got.Note != "groceries" {
		t.Fatalf("get after update: %v %+v", err, got)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, created.ID); err == nil {
		t.Fatalf("expected not found after delete")
	}
}

func TestDeleteCardLeavesTransactionsDangling(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, err := s.CreateCard(ctx, core.CreditCardAccount{
		CardName: "Everyday", CreditLimit: core.Money{Cents: 5000_00},
		BillDay: 5, RepaymentDay: 25,
	})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	tx, err := s.CreateTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 20_00}, Type: core.TxDebt,
		Date: time.Now(), UserID: "u1", CardID: card.ID,
	})
	if err != nil {
		t.Fatalf("create txn: %v", err)
	}

	if err := s.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("transaction must survive card deletion: %v", err)
	}
	if got.CardID != card.ID {
		t.Fatalf("dangling reference must be preserved, got %q", got.CardID)
	}
}

func TestDepositToGoalAllowsOverAllocation(t *testing.T) {
	s := New()
	ctx := context.Background()

	goal, err := s.CreateGoal(ctx, core.SavingsGoal{
		Name: "Trip", TargetAmount: core.Money{Cents: 100_00},
		CurrentAmount: core.Money{Cents: 100_00},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	// No cash check on purpose: the deposit must succeed even when the
	// family's flexible cash is already zero.
	updated, err := s.DepositToGoal(ctx, goal.ID, core.Money{Cents: 50_00})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if updated.CurrentAmount.Cents != 150_00 {
		t.Fatalf("current amount = %d, want 15000", updated.CurrentAmount.Cents)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.CreateBaby(ctx, core.Baby{Name: "Mia"}); err != nil {
		t.Fatalf("create baby: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap.Babies[0].Name = "changed"

	again, _ := s.Snapshot(ctx)
	if again.Babies[0].Name != "Mia" {
		t.Fatalf("snapshot must not alias store state")
	}
}
