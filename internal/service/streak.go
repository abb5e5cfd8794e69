package service

import (
	"time"

	"sparkacademy/internal/models"
)

// DateLayout is how login dates are persisted
const DateLayout = "2006-01-02"

// NextStreak computes the streak count for a login on today given the
// stored streak. Both dates are compared as calendar days in today's
// location; a missing or unreadable last login starts a new streak.
func NextStreak(prev models.StreakData, today time.Time) int {
	if prev.LastLogin == "" {
		return 1
	}
	last, err := time.ParseInLocation(DateLayout, prev.LastLogin, today.Location())
	if err != nil {
		return 1
	}

	diff := daysBetween(last, today)
	switch {
	case diff == 1:
		return prev.Count + 1
	case diff > 1:
		return 1
	default:
		if prev.Count == 0 {
			return 1
		}
		return prev.Count
	}
}

// daysBetween counts calendar days from a to b, ignoring time of day and
// daylight saving shifts
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// FormatDate renders t as a persisted login date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
