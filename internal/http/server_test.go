package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nido/internal/core"
	"nido/internal/ledger"
	"nido/internal/parser"
	"nido/internal/services"
	"nido/internal/store/memory"
)

type fakeParser struct {
	draft parser.Draft
	err   error

	lastReq parser.Request
}

func (f *fakeParser) Parse(_ context.Context, req parser.Request, _ time.Time) (parser.Draft, error) {
	f.lastReq = req
	return f.draft, f.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := memory.New()
	srv := NewServer(":0", st, services.NewLedgerService(st, nil), nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", transactionPayload{
		Amount:   "45.50",
		Type:     "expense",
		Category: "food",
		Date:     "2024-06-09",
		Note:     "Groceries",
		UserID:   "u1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	var created transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create should assign an id")
	}
	if created.Amount != "45.50" {
		t.Errorf("amount = %q, want 45.50", created.Amount)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var listed []transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created transaction", listed)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/transactions/"+created.ID, transactionPayload{
		Amount:   "50.00",
		Type:     "expense",
		Category: "food",
		Date:     "2024-06-09",
		Note:     "Groceries and snacks",
		UserID:   "u1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", rr.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		payload transactionPayload
		status  int
	}{
		{
			name:    "bad amount",
			payload: transactionPayload{Amount: "abc", Type: "expense", Category: "food", Date: "2024-06-09", UserID: "u1"},
			status:  http.StatusUnprocessableEntity,
		},
		{
			name:    "negative amount",
			payload: transactionPayload{Amount: "-5.00", Type: "expense", Category: "food", Date: "2024-06-09", UserID: "u1"},
			status:  http.StatusUnprocessableEntity,
		},
		{
			name:    "unknown type",
			payload: transactionPayload{Amount: "5.00", Type: "transfer", Category: "food", Date: "2024-06-09", UserID: "u1"},
			status:  http.StatusUnprocessableEntity,
		},
		{
			name:    "missing user",
			payload: transactionPayload{Amount: "5.00", Type: "expense", Category: "food", Date: "2024-06-09"},
			status:  http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", tt.payload)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d (body: %s)", rr.Code, tt.status, rr.Body.String())
			}
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestGoalDepositAllowsOverAllocation(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/goals", goalPayload{
		Name:         "Vacation",
		TargetAmount: "1000.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create goal status=%d body=%s", rr.Code, rr.Body.String())
	}
	var goal goalJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}

	// No cash was ever recorded, yet the deposit succeeds: goal deposits
	// are nominal allocations, not gated on flexible cash.
	rr = doJSON(t, srv, http.MethodPost, "/api/goals/deposit", depositPayload{
		GoalID: goal.ID,
		Amount: "500.00",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("deposit status=%d body=%s", rr.Code, rr.Body.String())
	}
	var after goalJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode deposit response: %v", err)
	}
	if after.CurrentAmount != "500.00" {
		t.Errorf("current = %q, want 500.00", after.CurrentAmount)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/goals/deposit", depositPayload{
		GoalID: "missing",
		Amount: "1.00",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("deposit to missing goal status=%d, want 404", rr.Code)
	}
}

func TestDeleteCardLeavesTransactions(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/cards", cardPayload{
		CardName:     "Visa",
		CreditLimit:  "5000.00",
		BillDay:      1,
		RepaymentDay: 15,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create card status=%d body=%s", rr.Code, rr.Body.String())
	}
	var card cardJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode card: %v", err)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", transactionPayload{
		Amount:   "200.00",
		Type:     "debt",
		Category: "credit_card",
		Date:     "2024-06-09",
		UserID:   "u1",
		CardID:   card.ID,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create transaction status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/cards/"+card.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete card status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	var listed []transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].CardID != card.ID {
		t.Fatalf("transaction should keep its dangling card reference, got %+v", listed)
	}
}

func TestParseEndpoint(t *testing.T) {
	st := memory.New()

	t.Run("not configured", func(t *testing.T) {
		srv := NewServer(":0", st, services.NewLedgerService(st, nil), nil)
		defer srv.Shutdown(context.Background())

		rr := doJSON(t, srv, http.MethodPost, "/api/parse", parseRequest{Text: "coffee 3.50"})
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status=%d, want 503", rr.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		srv := NewServer(":0", st, services.NewLedgerService(st, nil), &fakeParser{
			draft: parser.Draft{
				Amount:   core.Money{Cents: 350},
				Type:     core.TxExpense,
				Category: core.NewCategory(core.CodeFood),
				Note:     "Coffee",
				Date:     time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC),
			},
		})
		defer srv.Shutdown(context.Background())

		rr := doJSON(t, srv, http.MethodPost, "/api/parse", parseRequest{Text: "coffee 3.50"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		var resp parseResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Amount != "3.50" || resp.Type != "expense" || resp.Date != "2024-06-09" {
			t.Errorf("unexpected parse response: %+v", resp)
		}
	})

	t.Run("image only", func(t *testing.T) {
		fp := &fakeParser{
			draft: parser.Draft{
				Amount: core.Money{Cents: 1299},
				Type:   core.TxExpense,
			},
		}
		srv := NewServer(":0", st, services.NewLedgerService(st, nil), fp)
		defer srv.Shutdown(context.Background())

		rr := doJSON(t, srv, http.MethodPost, "/api/parse", parseRequest{
			Image:     base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes")),
			ImageType: "image/jpeg",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		if string(fp.lastReq.ImageData) != "fake-jpeg-bytes" || fp.lastReq.ImageMIME != "image/jpeg" {
			t.Errorf("parser did not receive the decoded image: %+v", fp.lastReq)
		}
	})

	t.Run("bad image encoding", func(t *testing.T) {
		srv := NewServer(":0", st, services.NewLedgerService(st, nil), &fakeParser{})
		defer srv.Shutdown(context.Background())

		rr := doJSON(t, srv, http.MethodPost, "/api/parse", parseRequest{Image: "not base64!!"})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status=%d, want 422", rr.Code)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		srv := NewServer(":0", st, services.NewLedgerService(st, nil), &fakeParser{})
		defer srv.Shutdown(context.Background())

		rr := doJSON(t, srv, http.MethodPost, "/api/parse", parseRequest{Text: "  "})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status=%d, want 422", rr.Code)
		}
	})
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)
	srv.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	}

	seed := []transactionPayload{
		{Amount: "500.00", Type: "income", Category: "salary", Date: "2024-06-01", UserID: "u1"},
		{Amount: "45.50", Type: "expense", Category: "food", Date: "2024-06-09", Note: "Groceries", UserID: "u1"},
		{Amount: "12.00", Type: "expense", Category: "transport", Date: "2024-06-10", UserID: "u2"},
	}
	for _, p := range seed {
		if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", p); rr.Code != http.StatusCreated {
			t.Fatalf("seed status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2024&month=6", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d body=%s", rr.Code, rr.Body.String())
	}
	var ov ledger.Overview
	if err := json.Unmarshal(rr.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if ov.Period.Current.Income.Cents != 50000 {
		t.Errorf("income = %d cents, want 50000", ov.Period.Current.Income.Cents)
	}
	if ov.Period.Current.Expense.Cents != 5750 {
		t.Errorf("expense = %d cents, want 5750", ov.Period.Current.Expense.Cents)
	}
	if ov.Streak != 2 {
		t.Errorf("streak = %d, want 2 (activity on the 9th and 10th)", ov.Streak)
	}

	t.Run("self scope", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2024&month=6&scope=self&user=u2", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d", rr.Code)
		}
		var ov ledger.Overview
		if err := json.Unmarshal(rr.Body.Bytes(), &ov); err != nil {
			t.Fatalf("decode overview: %v", err)
		}
		if ov.Period.Current.Expense.Cents != 1200 {
			t.Errorf("self expense = %d cents, want 1200", ov.Period.Current.Expense.Cents)
		}
	})

	t.Run("self scope requires user", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard?scope=self", nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400", rr.Code)
		}
	})

	t.Run("bad granularity", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard?granularity=week", nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400", rr.Code)
		}
	})

	t.Run("write purges cache", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", transactionPayload{
			Amount: "100.00", Type: "expense", Category: "food", Date: "2024-06-10", UserID: "u1",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d", rr.Code)
		}

		rr = doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2024&month=6", nil)
		var after ledger.Overview
		if err := json.Unmarshal(rr.Body.Bytes(), &after); err != nil {
			t.Fatalf("decode overview: %v", err)
		}
		if after.Period.Current.Expense.Cents != 15750 {
			t.Errorf("expense after write = %d cents, want 15750", after.Period.Current.Expense.Cents)
		}
	})
}
