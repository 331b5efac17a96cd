// Package http serves the JSON API: entity CRUD, the aggregated dashboard,
// and the natural-language parsing proxy.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nido/internal/ledger"
	"nido/internal/parser"
	"nido/internal/services"
	"nido/internal/store"
)

// TransactionParser proxies free text (and optional receipt images) to
// the generative model.
type TransactionParser interface {
	Parse(ctx context.Context, req parser.Request, now time.Time) (parser.Draft, error)
}

type Server struct {
	http.Server
	store  store.Store
	ledger *services.LedgerService
	parser TransactionParser

	// now is injected so the dashboard is reproducible in tests.
	now func() time.Time

	rateLimiter *rateLimiter
	metrics     securityMetrics

	// Dashboard responses, purged on every write.
	overviewCache *lruCache[ledger.Overview]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. The parser may be nil; /api/parse then answers 503.
func NewServer(addr string, st store.Store, ledgerSvc *services.LedgerService, p TransactionParser) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            st,
		ledger:           ledgerSvc,
		parser:           p,
		now:              time.Now,
		rateLimiter:      newRateLimiter(),
		overviewCache:    newLRUCache[ledger.Overview](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.protected(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.protected(s.handleListTransactions))
	mux.HandleFunc("PUT /api/transactions/{id}", s.protected(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.protected(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/cards", s.protected(s.handleCreateCard))
	mux.HandleFunc("GET /api/cards", s.protected(s.handleListCards))
	mux.HandleFunc("PUT /api/cards/{id}", s.protected(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", s.protected(s.handleDeleteCard))

	mux.HandleFunc("POST /api/loans", s.protected(s.handleCreateLoan))
	mux.HandleFunc("GET /api/loans", s.protected(s.handleListLoans))
	mux.HandleFunc("PUT /api/loans/{id}", s.protected(s.handleUpdateLoan))
	mux.HandleFunc("DELETE /api/loans/{id}", s.protected(s.handleDeleteLoan))

	mux.HandleFunc("POST /api/goals", s.protected(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals", s.protected(s.handleListGoals))
	mux.HandleFunc("PUT /api/goals/{id}", s.protected(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.protected(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/deposit", s.protected(s.handleDepositToGoal))

	mux.HandleFunc("POST /api/babies", s.protected(s.handleCreateBaby))
	mux.HandleFunc("GET /api/babies", s.protected(s.handleListBabies))
	mux.HandleFunc("PUT /api/babies/{id}", s.protected(s.handleUpdateBaby))
	mux.HandleFunc("DELETE /api/babies/{id}", s.protected(s.handleDeleteBaby))

	mux.HandleFunc("POST /api/users", s.protected(s.handleCreateUser))

	mux.HandleFunc("GET /api/dashboard", s.protected(s.handleDashboard))
	mux.HandleFunc("POST /api/parse", s.protected(s.handleParse))

	return s
}

// startCacheCleanup periodically drops expired dashboard entries.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.overviewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// protected adds security headers, rate limiting on mutations, request ids
// and request logging.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if detectSuspiciousRequest(r, &s.metrics) {
			slog.WarnContext(ctx, "Suspicious request", "client_ip", clientIP, "url", r.URL.String())
		}

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
