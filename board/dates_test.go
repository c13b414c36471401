package board

import (
	"testing"
	"time"
)

// now pins the clock: Friday 2024-03-15 14:30 local.
var now = time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)

func TestMatchesBucket(t *testing.T) {
	cases := []struct {
		date   string
		bucket Bucket
		want   bool
	}{
		{"2024-03-15", BucketToday, true},
		{"2024-03-15 09:12", BucketToday, true},
		{"2024-03-14", BucketToday, false},
		{"2024-03-14", BucketYesterday, true},
		{"2024-03-15", BucketYesterday, false},
		// Week of the 15th starts Monday the 11th.
		{"2024-03-11", BucketThisWeek, true},
		{"2024-03-10", BucketThisWeek, false},
		{"2024-03-04", BucketLastWeek, true},
		{"2024-03-10", BucketLastWeek, true},
		{"2024-03-11", BucketLastWeek, false},
		{"2024-03-03", BucketLastWeek, false},
		{"2024-03-01", BucketThisMonth, true},
		{"2024-02-29", BucketThisMonth, false},
		// 30 days before 2024-03-15 is 2024-02-14.
		{"2024-02-01", BucketLastMonth, true},
		{"2024-01-31", BucketLastMonth, false},
		{"2024-03-08", BucketRecent, true},
		{"2024-03-07", BucketRecent, false},
	}
	for _, c := range cases {
		if got := MatchesBucket(c.date, c.bucket, now); got != c.want {
			t.Errorf("MatchesBucket(%q, %q): got %v, want %v", c.date, c.bucket, got, c.want)
		}
	}
}

func TestMatchesBucket_UnparseableMatchesEverything(t *testing.T) {
	buckets := []Bucket{
		BucketToday, BucketYesterday, BucketThisWeek, BucketLastWeek,
		BucketThisMonth, BucketLastMonth, BucketRecent,
	}
	for _, text := range []string{"", "없음", "15/03/2024", "soon"} {
		for _, b := range buckets {
			if !MatchesBucket(text, b, now) {
				t.Errorf("MatchesBucket(%q, %q): unparseable date must fail open", text, b)
			}
		}
	}
}

func TestMatchesBucket_TodayDependsOnNow(t *testing.T) {
	if !MatchesBucket("2024-03-15", BucketToday, now) {
		t.Error("date equal to now should match today")
	}
	other := now.AddDate(0, 0, 3)
	if MatchesBucket("2024-03-15", BucketToday, other) {
		t.Error("today must be evaluated against the injected clock, not the date text")
	}
}
