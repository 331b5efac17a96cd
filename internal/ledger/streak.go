package ledger

import (
	"sort"
	"time"

	"nido/internal/core"
)

// Streak returns the length of the longest unbroken run of calendar days
// with at least one transaction, ending today or yesterday. Missing today
// alone does not break the streak (the current day may still be in
// progress); any older gap resets it to 0. Duplicate days count once.
func Streak(txns []core.Transaction, now time.Time) int {
	seen := map[time.Time]struct{}{}
	for _, tx := range txns {
		if tx.Date.IsZero() {
			continue
		}
		seen[dayOf(tx.Date.In(now.Location()))] = struct{}{}
	}
	if len(seen) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dayOf(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			// AddDate comparison handles DST-shifted days too.
			if !days[i].AddDate(0, 0, 1).Equal(days[i-1]) {
				break
			}
		}
		streak++
	}
	return streak
}
