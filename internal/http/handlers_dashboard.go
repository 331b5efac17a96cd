package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nido/internal/ledger"
)

func parseScope(r *http.Request) (ledger.Scope, error) {
	kind := strings.TrimSpace(r.URL.Query().Get("scope"))
	user := strings.TrimSpace(r.URL.Query().Get("user"))

	switch kind {
	case "", string(ledger.ScopeFamily):
		return ledger.Scope{Kind: ledger.ScopeFamily}, nil
	case string(ledger.ScopeSelf):
		if user == "" {
			return ledger.Scope{}, fmt.Errorf("scope=self requires a user parameter")
		}
		return ledger.Scope{Kind: ledger.ScopeSelf, UserID: user}, nil
	default:
		return ledger.Scope{}, fmt.Errorf("unknown scope %q", kind)
	}
}

func parseGranularity(r *http.Request) (ledger.Granularity, error) {
	switch g := strings.TrimSpace(r.URL.Query().Get("granularity")); g {
	case "", string(ledger.GranularityMonth):
		return ledger.GranularityMonth, nil
	case string(ledger.GranularityYear):
		return ledger.GranularityYear, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", g)
	}
}

// parseAnchor resolves year/month parameters to the first day of the
// requested period, defaulting to the current one.
func parseAnchor(r *http.Request, now time.Time) (time.Time, error) {
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return time.Time{}, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return time.Time{}, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location()), nil
}

// handleDashboard runs the filtered snapshot through every aggregator and
// returns the combined overview. Responses are cached per parameter set
// and purged on any write.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()

	scope, err := parseScope(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	granularity, err := parseGranularity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	anchor, err := parseAnchor(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query().Get("q")

	key := dashboardCacheKey(scope, query, anchor, granularity)
	if cached, found := s.overviewCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	overview := ledger.BuildOverview(snap, scope, query, anchor, granularity, now)
	s.overviewCache.Set(key, overview)

	writeJSON(w, http.StatusOK, overview)
}

func dashboardCacheKey(scope ledger.Scope, query string, anchor time.Time, g ledger.Granularity) string {
	return strings.Join([]string{
		string(scope.Kind),
		scope.UserID,
		query,
		anchor.Format("2006-01"),
		string(g),
	}, "|")
}
