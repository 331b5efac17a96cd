package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nido/internal/core"
	"nido/internal/ledger"
	"nido/internal/parser"
	"nido/internal/store"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store and validation errors onto status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingUser):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func readJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// Transactions

type transactionPayload struct {
	Amount      string   `json:"amount"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	DueDate     string   `json:"due_date,omitempty"`
	Note        string   `json:"note"`
	UserID      string   `json:"user_id"`
	BabyID      string   `json:"baby_id,omitempty"`
	CardID      string   `json:"card_id,omitempty"`
	LoanID      string   `json:"loan_id,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type transactionJSON struct {
	ID string `json:"id"`
	transactionPayload
}

func decodeTransaction(p transactionPayload) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	dueDate, err := parseDate(p.DueDate)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(p.Type),
		Category:    core.ParseCategory(p.Category),
		Date:        date,
		DueDate:     dueDate,
		Note:        sanitizeInput(p.Note),
		UserID:      strings.TrimSpace(p.UserID),
		BabyID:      strings.TrimSpace(p.BabyID),
		CardID:      strings.TrimSpace(p.CardID),
		LoanID:      strings.TrimSpace(p.LoanID),
		Attachments: p.Attachments,
	}, nil
}

func encodeTransaction(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID: tx.ID,
		transactionPayload: transactionPayload{
			Amount:      tx.Amount.DecimalString(),
			Type:        string(tx.Type),
			Category:    tx.Category.Label(),
			Date:        formatDate(tx.Date),
			DueDate:     formatDate(tx.DueDate),
			Note:        tx.Note,
			UserID:      tx.UserID,
			BabyID:      tx.BabyID,
			CardID:      tx.CardID,
			LoanID:      tx.LoanID,
			Attachments: tx.Attachments,
		},
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := decodeTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, encodeTransaction(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	scope, err := parseScope(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query().Get("q")

	txns := ledger.Filter(snap.Transactions, scope, query)
	out := make([]transactionJSON, 0, len(txns))
	for _, tx := range txns {
		out = append(out, encodeTransaction(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := decodeTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx.ID = r.PathValue("id")

	if err := s.ledger.UpdateTransaction(r.Context(), tx); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeTransaction(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// Cards

type cardPayload struct {
	BankName     string `json:"bank_name"`
	CardName     string `json:"card_name"`
	Last4        string `json:"last4"`
	CreditLimit  string `json:"credit_limit"`
	BillDay      int    `json:"bill_day"`
	RepaymentDay int    `json:"repayment_day"`
	Balance      string `json:"balance"`
}

type cardJSON struct {
	ID string `json:"id"`
	cardPayload
}

func decodeCard(p cardPayload) (core.CreditCardAccount, error) {
	limit, err := core.ParseDecimalToCents(p.CreditLimit)
	if err != nil {
		return core.CreditCardAccount{}, err
	}
	balance := int64(0)
	if strings.TrimSpace(p.Balance) != "" {
		balance, err = core.ParseDecimalToCents(p.Balance)
		if err != nil {
			return core.CreditCardAccount{}, err
		}
	}
	return core.CreditCardAccount{
		BankName:     sanitizeInput(p.BankName),
		CardName:     sanitizeInput(p.CardName),
		Last4:        strings.TrimSpace(p.Last4),
		CreditLimit:  core.Money{Cents: limit},
		BillDay:      p.BillDay,
		RepaymentDay: p.RepaymentDay,
		Balance:      core.Money{Cents: balance},
	}, nil
}

func encodeCard(c core.CreditCardAccount) cardJSON {
	return cardJSON{
		ID: c.ID,
		cardPayload: cardPayload{
			BankName:     c.BankName,
			CardName:     c.CardName,
			Last4:        c.Last4,
			CreditLimit:  c.CreditLimit.DecimalString(),
			BillDay:      c.BillDay,
			RepaymentDay: c.RepaymentDay,
			Balance:      c.Balance.DecimalString(),
		},
	}
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var p cardPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, err := decodeCard(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateCard(r.Context(), card)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, encodeCard(created))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]cardJSON, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		out = append(out, encodeCard(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var p cardPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, err := decodeCard(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	card.ID = r.PathValue("id")

	if err := s.store.UpdateCard(r.Context(), card); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeCard(card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCard(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// Loans

type loanPayload struct {
	Name             string `json:"name"`
	BankName         string `json:"bank_name"`
	TotalAmount      string `json:"total_amount"`
	Balance          string `json:"balance"`
	InterestDay      int    `json:"interest_day"`
	MonthlyRepayment string `json:"monthly_repayment"`
	Category         string `json:"category"`
}

type loanJSON struct {
	ID string `json:"id"`
	loanPayload
}

func decodeLoan(p loanPayload) (core.LoanAccount, error) {
	total, err := core.ParseDecimalToCents(p.TotalAmount)
	if err != nil {
		return core.LoanAccount{}, err
	}
	balance := int64(0)
	if strings.TrimSpace(p.Balance) != "" {
		balance, err = core.ParseDecimalToCents(p.Balance)
		if err != nil {
			return core.LoanAccount{}, err
		}
	}
	monthly := int64(0)
	if strings.TrimSpace(p.MonthlyRepayment) != "" {
		monthly, err = core.ParseDecimalToCents(p.MonthlyRepayment)
		if err != nil {
			return core.LoanAccount{}, err
		}
	}
	return core.LoanAccount{
		Name:             sanitizeInput(p.Name),
		BankName:         sanitizeInput(p.BankName),
		TotalAmount:      core.Money{Cents: total},
		Balance:          core.Money{Cents: balance},
		InterestDay:      p.InterestDay,
		MonthlyRepayment: core.Money{Cents: monthly},
		Category:         core.ParseCategory(p.Category),
	}, nil
}

func encodeLoan(l core.LoanAccount) loanJSON {
	return loanJSON{
		ID: l.ID,
		loanPayload: loanPayload{
			Name:             l.Name,
			BankName:         l.BankName,
			TotalAmount:      l.TotalAmount.DecimalString(),
			Balance:          l.Balance.DecimalString(),
			InterestDay:      l.InterestDay,
			MonthlyRepayment: l.MonthlyRepayment.DecimalString(),
			Category:         l.Category.Label(),
		},
	}
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var p loanPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := decodeLoan(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateLoan(r.Context(), loan)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, encodeLoan(created))
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]loanJSON, 0, len(snap.Loans))
	for _, l := range snap.Loans {
		out = append(out, encodeLoan(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var p loanPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := decodeLoan(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	loan.ID = r.PathValue("id")

	if err := s.store.UpdateLoan(r.Context(), loan); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeLoan(loan))
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLoan(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// Goals

type goalPayload struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Deadline      string `json:"deadline,omitempty"`
}

type goalJSON struct {
	ID string `json:"id"`
	goalPayload
	Progress int `json:"progress"`
}

func decodeGoal(p goalPayload) (core.SavingsGoal, error) {
	target, err := core.ParseDecimalToCents(p.TargetAmount)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	current := int64(0)
	if strings.TrimSpace(p.CurrentAmount) != "" {
		current, err = core.ParseDecimalToCents(p.CurrentAmount)
		if err != nil {
			return core.SavingsGoal{}, err
		}
	}
	deadline, err := parseDate(p.Deadline)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	return core.SavingsGoal{
		Name:          sanitizeInput(p.Name),
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
		Icon:          strings.TrimSpace(p.Icon),
		Color:         strings.TrimSpace(p.Color),
		Deadline:      deadline,
	}, nil
}

func encodeGoal(g core.SavingsGoal) goalJSON {
	return goalJSON{
		ID: g.ID,
		goalPayload: goalPayload{
			Name:          g.Name,
			TargetAmount:  g.TargetAmount.DecimalString(),
			CurrentAmount: g.CurrentAmount.DecimalString(),
			Icon:          g.Icon,
			Color:         g.Color,
			Deadline:      formatDate(g.Deadline),
		},
		Progress: g.Progress(),
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var p goalPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal, err := decodeGoal(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateGoal(r.Context(), goal)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, encodeGoal(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]goalJSON, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		out = append(out, encodeGoal(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var p goalPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal, err := decodeGoal(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal.ID = r.PathValue("id")

	if err := s.store.UpdateGoal(r.Context(), goal); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeGoal(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

type depositPayload struct {
	GoalID string `json:"goal_id"`
	Amount string `json:"amount"`
}

// handleDepositToGoal moves cash into a goal. It deliberately performs no
// flexible-cash check: nominal over-allocation is an accepted state.
func (s *Server) handleDepositToGoal(w http.ResponseWriter, r *http.Request) {
	var p depositPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	goal, err := s.store.DepositToGoal(r.Context(), strings.TrimSpace(p.GoalID), core.Money{Cents: cents})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeGoal(goal))
}

// Babies

type babyPayload struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	BirthDate string `json:"birth_date,omitempty"`
}

type babyJSON struct {
	ID string `json:"id"`
	babyPayload
}

func decodeBaby(p babyPayload) (core.Baby, error) {
	birth, err := parseDate(p.BirthDate)
	if err != nil {
		return core.Baby{}, err
	}
	return core.Baby{
		Name:      sanitizeInput(p.Name),
		Avatar:    strings.TrimSpace(p.Avatar),
		BirthDate: birth,
	}, nil
}

func encodeBaby(b core.Baby) babyJSON {
	return babyJSON{
		ID: b.ID,
		babyPayload: babyPayload{
			Name:      b.Name,
			Avatar:    b.Avatar,
			BirthDate: formatDate(b.BirthDate),
		},
	}
}

func (s *Server) handleCreateBaby(w http.ResponseWriter, r *http.Request) {
	var p babyPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	baby, err := decodeBaby(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateBaby(r.Context(), baby)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, encodeBaby(created))
}

func (s *Server) handleListBabies(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]babyJSON, 0, len(snap.Babies))
	for _, b := range snap.Babies {
		out = append(out, encodeBaby(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateBaby(w http.ResponseWriter, r *http.Request) {
	var p babyPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	baby, err := decodeBaby(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	baby.ID = r.PathValue("id")

	if err := s.store.UpdateBaby(r.Context(), baby); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusOK, encodeBaby(baby))
}

func (s *Server) handleDeleteBaby(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBaby(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// Users

type userPayload struct {
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	IsFamilyAdmin bool   `json:"is_family_admin"`
	CanView       bool   `json:"can_view"`
	CanEdit       bool   `json:"can_edit"`
}

type userJSON struct {
	ID string `json:"id"`
	userPayload
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.store.CreateUser(r.Context(), core.User{
		Name:          sanitizeInput(p.Name),
		Avatar:        strings.TrimSpace(p.Avatar),
		IsFamilyAdmin: p.IsFamilyAdmin,
		CanView:       p.CanView,
		CanEdit:       p.CanEdit,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userJSON{
		ID: created.ID,
		userPayload: userPayload{
			Name:          created.Name,
			Avatar:        created.Avatar,
			IsFamilyAdmin: created.IsFamilyAdmin,
			CanView:       created.CanView,
			CanEdit:       created.CanEdit,
		},
	})
}

// Parsing proxy

type parseRequest struct {
	Text string `json:"text"`
	// Optional receipt image, base64-encoded.
	Image     string `json:"image,omitempty"`
	ImageType string `json:"image_type,omitempty"`
}

type parseResponse struct {
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Date     string `json:"date"`
	DueDate  string `json:"due_date,omitempty"`
	BabyName string `json:"baby_name,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		writeError(w, http.StatusServiceUnavailable, "parsing is not configured")
		return
	}

	var p parseRequest
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := sanitizeInput(p.Text)
	var imageData []byte
	if p.Image != "" {
		var err error
		imageData, err = base64.StdEncoding.DecodeString(p.Image)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "image must be base64-encoded")
			return
		}
	}
	if text == "" && len(imageData) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "text or image is required")
		return
	}

	draft, err := s.parser.Parse(r.Context(), parser.Request{
		Text:      text,
		ImageData: imageData,
		ImageMIME: p.ImageType,
	}, s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not parse the text")
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Amount:   draft.Amount.DecimalString(),
		Type:     string(draft.Type),
		Category: draft.Category.Label(),
		Note:     draft.Note,
		Date:     formatDate(draft.Date),
		DueDate:  formatDate(draft.DueDate),
		BabyName: draft.BabyName,
	})
}
