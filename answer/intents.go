package answer

import (
	"strings"

	"github.com/jayz-blip/askboard/board"
)

// dateKeywords maps Korean time expressions to buckets. Order matters:
// the first keyword found in the message wins, and spaced forms come
// before their collapsed variants.
var dateKeywords = []struct {
	word   string
	bucket board.Bucket
}{
	{"오늘", board.BucketToday},
	{"어제", board.BucketYesterday},
	{"이번 주", board.BucketThisWeek},
	{"이번주", board.BucketThisWeek},
	{"지난 주", board.BucketLastWeek},
	{"지난주", board.BucketLastWeek},
	{"이번 달", board.BucketThisMonth},
	{"이번달", board.BucketThisMonth},
	{"지난 달", board.BucketLastMonth},
	{"지난달", board.BucketLastMonth},
	{"최근", board.BucketRecent},
	{"최근 일주일", board.BucketRecent},
	{"최근 7일", board.BucketRecent},
}

var problemKeywords = []string{
	"문제", "어려움", "이슈", "오류", "에러", "장애", "트러블", "난제",
	"복잡", "어려웠", "문제가", "이슈가", "오류가", "에러가",
}

var contactKeywords = []string{
	"담당자", "문의", "연락", "누구", "누가", "어디", "어느", "담당", "접촉",
}

// detectBucket returns the date bucket a message asks about, or "".
func detectBucket(message string) board.Bucket {
	for _, k := range dateKeywords {
		if strings.Contains(message, k.word) {
			return k.bucket
		}
	}
	return ""
}

// isProblemQuery reports whether the message asks about problems or
// difficult cases, which biases the answer toward busy threads.
func isProblemQuery(message string) bool {
	return containsAny(message, problemKeywords)
}

// isContactQuery reports whether the message asks who is in charge.
func isContactQuery(message string) bool {
	return containsAny(message, contactKeywords)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
