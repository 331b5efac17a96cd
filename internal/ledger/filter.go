package ledger

import (
	"strings"

	"nido/internal/core"
)

// Filter narrows transactions to a visibility scope and an optional
// free-text query. The query matches case-insensitively as a substring
// against the note, the category label and the decimal amount string.
// Total function: never fails, empty input yields empty output.
func Filter(txns []core.Transaction, scope Scope, query string) []core.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Transaction, 0, len(txns))
	for _, tx := range txns {
		if scope.Kind == ScopeSelf && tx.UserID != scope.UserID {
			continue
		}
		if query != "" && !matches(tx, query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matches(tx core.Transaction, query string) bool {
	if strings.Contains(strings.ToLower(tx.Note), query) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Category.Label()), query) {
		return true
	}
	return strings.Contains(tx.Amount.DecimalString(), query)
}
