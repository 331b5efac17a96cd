package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"nido/internal/core"
	"nido/internal/ledger"
	"nido/internal/store"
)

// SQLiteRepository persists the six entity collections. It implements
// store.Store plus the pending-sync queries the export worker needs.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Dates are stored as RFC 3339 strings; the empty string stands for "not
// set" and scans back to the zero time.
func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Malformed dates are treated as unset, not as failures; the
		// aggregation layer excludes them from every period.
		return time.Time{}
	}
	return t
}

func encodeAttachments(refs []string) string {
	return strings.Join(refs, "\n")
}

func decodeAttachments(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount_cents, type, category, date, due_date, note, user_id, baby_id, card_id, loan_id, attachments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount.Cents, string(tx.Type), tx.Category.Label(),
		encodeTime(tx.Date), encodeTime(tx.DueDate), tx.Note,
		tx.UserID, tx.BabyID, tx.CardID, tx.LoanID, encodeAttachments(tx.Attachments))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents)
	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, type = ?, category = ?, date = ?, due_date = ?, note = ?,
		    user_id = ?, baby_id = ?, card_id = ?, loan_id = ?, attachments = ?, synced = 0
		WHERE id = ?`,
		tx.Amount.Cents, string(tx.Type), tx.Category.Label(),
		encodeTime(tx.Date), encodeTime(tx.DueDate), tx.Note,
		tx.UserID, tx.BabyID, tx.CardID, tx.LoanID, encodeAttachments(tx.Attachments), tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, type, category, date, due_date, note, user_id, baby_id, card_id, loan_id, attachments
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                    core.Transaction
		txType, category      string
		date, dueDate, attach string
	)
	err := row.Scan(&tx.ID, &tx.Amount.Cents, &txType, &category,
		&date, &dueDate, &tx.Note, &tx.UserID, &tx.BabyID, &tx.CardID, &tx.LoanID, &attach)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(txType)
	tx.Category = core.ParseCategory(category)
	tx.Date = decodeTime(date)
	tx.DueDate = decodeTime(dueDate)
	tx.Attachments = decodeAttachments(attach)
	return tx, nil
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.CreditCardAccount) (core.CreditCardAccount, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCardAccount{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, bank_name, card_name, last4, credit_limit_cents, bill_day, repayment_day, balance_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.BankName, c.CardName, c.Last4, c.CreditLimit.Cents, c.BillDay, c.RepaymentDay, c.Balance.Cents)
	if err != nil {
		return core.CreditCardAccount{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.CreditCardAccount) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards SET bank_name = ?, card_name = ?, last4 = ?, credit_limit_cents = ?,
		    bill_day = ?, repayment_day = ?, balance_cents = ?
		WHERE id = ?`,
		c.BankName, c.CardName, c.Last4, c.CreditLimit.Cents, c.BillDay, c.RepaymentDay, c.Balance.Cents, c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireRow(res)
}

// DeleteCard removes the account row only; transactions keep their card_id.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateLoan(ctx context.Context, l core.LoanAccount) (core.LoanAccount, error) {
	if err := l.Validate(); err != nil {
		return core.LoanAccount{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loans (id, name, bank_name, total_amount_cents, balance_cents, interest_day, monthly_repayment_cents, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.BankName, l.TotalAmount.Cents, l.Balance.Cents, l.InterestDay, l.MonthlyRepayment.Cents, l.Category.Label())
	if err != nil {
		return core.LoanAccount{}, fmt.Errorf("insert loan: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) UpdateLoan(ctx context.Context, l core.LoanAccount) error {
	if err := l.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans SET name = ?, bank_name = ?, total_amount_cents = ?, balance_cents = ?,
		    interest_day = ?, monthly_repayment_cents = ?, category = ?
		WHERE id = ?`,
		l.Name, l.BankName, l.TotalAmount.Cents, l.Balance.Cents, l.InterestDay, l.MonthlyRepayment.Cents, l.Category.Label(), l.ID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_cents, current_cents, icon, color, deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Icon, g.Color, encodeTime(g.Deadline))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, icon = ?, color = ?, deadline = ?
		WHERE id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Icon, g.Color, encodeTime(g.Deadline), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

// DepositToGoal adds to the goal's current amount. There is no flexible-cash
// gate here: nominal over-allocation is an accepted state.
func (r *SQLiteRepository) DepositToGoal(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, error) {
	if amount.Cents <= 0 {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = current_cents + ? WHERE id = ?`, amount.Cents, id)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("deposit to goal: %w", err)
	}
	if err := requireRow(res); err != nil {
		return core.SavingsGoal{}, err
	}

	var g core.SavingsGoal
	var deadline string
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, icon, color, deadline FROM goals WHERE id = ?`, id)
	if err := row.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.Icon, &g.Color, &deadline); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("reload goal: %w", err)
	}
	g.Deadline = decodeTime(deadline)
	return g, nil
}

func (r *SQLiteRepository) CreateBaby(ctx context.Context, b core.Baby) (core.Baby, error) {
	if err := b.Validate(); err != nil {
		return core.Baby{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO babies (id, name, avatar, birth_date) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, b.Avatar, encodeTime(b.BirthDate))
	if err != nil {
		return core.Baby{}, fmt.Errorf("insert baby: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBaby(ctx context.Context, b core.Baby) error {
	if err := b.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE babies SET name = ?, avatar = ?, birth_date = ? WHERE id = ?`,
		b.Name, b.Avatar, encodeTime(b.BirthDate), b.ID)
	if err != nil {
		return fmt.Errorf("update baby: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBaby(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM babies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete baby: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, avatar, is_family_admin, can_view, can_edit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Avatar, boolInt(u.IsFamilyAdmin), boolInt(u.CanView), boolInt(u.CanEdit))
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Snapshot reads all six collections in ordered, stable sequences for the
// aggregation engine.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, avatar, is_family_admin, can_view, can_edit FROM users ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query users: %w", err)
	}
	for rows.Next() {
		var u core.User
		var admin, view, edit int
		if err := rows.Scan(&u.ID, &u.Name, &u.Avatar, &admin, &view, &edit); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan user: %w", err)
		}
		u.IsFamilyAdmin, u.CanView, u.CanEdit = admin != 0, view != 0, edit != 0
		snap.Users = append(snap.Users, u)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `SELECT id, name, avatar, birth_date FROM babies ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query babies: %w", err)
	}
	for rows.Next() {
		var b core.Baby
		var birth string
		if err := rows.Scan(&b.ID, &b.Name, &b.Avatar, &birth); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan baby: %w", err)
		}
		b.BirthDate = decodeTime(birth)
		snap.Babies = append(snap.Babies, b)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, bank_name, card_name, last4, credit_limit_cents, bill_day, repayment_day, balance_cents
		FROM cards ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query cards: %w", err)
	}
	for rows.Next() {
		var c core.CreditCardAccount
		if err := rows.Scan(&c.ID, &c.BankName, &c.CardName, &c.Last4,
			&c.CreditLimit.Cents, &c.BillDay, &c.RepaymentDay, &c.Balance.Cents); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan card: %w", err)
		}
		snap.Cards = append(snap.Cards, c)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, name, bank_name, total_amount_cents, balance_cents, interest_day, monthly_repayment_cents, category
		FROM loans ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query loans: %w", err)
	}
	for rows.Next() {
		var l core.LoanAccount
		var category string
		if err := rows.Scan(&l.ID, &l.Name, &l.BankName, &l.TotalAmount.Cents,
			&l.Balance.Cents, &l.InterestDay, &l.MonthlyRepayment.Cents, &category); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan loan: %w", err)
		}
		l.Category = core.ParseCategory(category)
		snap.Loans = append(snap.Loans, l)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, icon, color, deadline FROM goals ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query goals: %w", err)
	}
	for rows.Next() {
		var g core.SavingsGoal
		var deadline string
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
			&g.Icon, &g.Color, &deadline); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan goal: %w", err)
		}
		g.Deadline = decodeTime(deadline)
		snap.Goals = append(snap.Goals, g)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, amount_cents, type, category, date, due_date, note, user_id, baby_id, card_id, loan_id, attachments
		FROM transactions ORDER BY date, rowid`)
	if err != nil {
		return snap, fmt.Errorf("query transactions: %w", err)
	}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	rows.Close()

	return snap, rows.Err()
}

// PendingTransaction is the minimal record the export worker needs to queue
// a row for the family spreadsheet.
type PendingTransaction struct {
	ID        string
	CreatedAt time.Time
}

// GetPendingTransactions lists transactions not yet mirrored to the family
// spreadsheet, oldest first.
func (r *SQLiteRepository) GetPendingTransactions(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at FROM transactions
		WHERE synced = 0 AND sync_error = 0
		ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced marks a transaction as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a transaction whose export failed so the periodic
// catch-up pass stops retrying it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
