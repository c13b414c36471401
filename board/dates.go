package board

import (
	"strings"
	"time"
)

// MatchesBucket reports whether dateText falls inside the named window,
// evaluated against now.
//
// Unparseable or empty dates match every bucket: excluding unknown-dated
// content is worse than including it.
func MatchesBucket(dateText string, bucket Bucket, now time.Time) bool {
	d, ok := parseDay(dateText)
	if !ok {
		return true
	}

	// Rebuild the post day in now's location so window comparisons are not
	// skewed by the parser's UTC default.
	today := midnight(now)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())

	switch bucket {
	case BucketToday:
		return sameDay(d, now)
	case BucketYesterday:
		return sameDay(d, now.AddDate(0, 0, -1))
	case BucketThisWeek:
		return !day.Before(weekStart(now))
	case BucketLastWeek:
		start := weekStart(now).AddDate(0, 0, -7)
		end := weekStart(now).AddDate(0, 0, -1)
		return !day.Before(start) && !day.After(end)
	case BucketThisMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case BucketLastMonth:
		// Fixed 30-day offset, not calendar-month arithmetic. Kept for
		// parity with the board's historical behaviour; wrong near month
		// boundaries when the current day-of-month is > 30-days-ago's month.
		lm := now.AddDate(0, 0, -30)
		return d.Year() == lm.Year() && d.Month() == lm.Month()
	case BucketRecent:
		return !day.Before(today.AddDate(0, 0, -7))
	}
	return true
}

// parseDay extracts the date component of "2006-01-02[ 15:04[:05]]".
func parseDay(dateText string) (time.Time, bool) {
	s := strings.TrimSpace(dateText)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekStart returns the most recent Monday at 00:00 relative to t.
func weekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
