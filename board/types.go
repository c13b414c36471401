// Package board defines the shared data model and the Source contract that
// both evidence backends (live scrape and tabular export) implement, plus
// the pure matching logic built on top of it: date buckets, client name
// resolution, and responsible-person aggregation.
package board

// UnknownAuthor is the placeholder the board renders for deleted or
// anonymised accounts. Aggregations must skip it.
const UnknownAuthor = "알 수 없음"

// Caps applied when records are built. Content beyond these lengths carries
// no value for a completion context and only burns tokens.
const (
	MaxContentLen = 1000
	MaxCommentLen = 1000
)

// Post is one board post, produced by either backend.
//
// Content falls back to Title when nothing richer could be extracted, so
// Content == Title means "no body fetched", not "body equals title".
// CommentCount comes from the listing-time title annotation; Comments comes
// from a separate detail fetch. The two are independent and may disagree.
type Post struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	Date         string     `json:"date"` // "2006-01-02" or "2006-01-02 15:04[:05]", may be empty
	CommentCount int        `json:"comment_count"`
	Comments     []*Comment `json:"comments,omitempty"` // page order
	URL          string     `json:"url,omitempty"`
	Client       string     `json:"client"` // organisational unit the post belongs to
}

// Comment is one reply under a post.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Date   string `json:"date"` // same format as Post.Date, may be empty
}

// Category is one navigation-menu entry of the live board: a client board
// and its listing URL.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ResponsiblePerson is the most recently active author within a bounded
// recent window for one client. Computed per query, never persisted.
type ResponsiblePerson struct {
	Name         string   `json:"name"`
	LastActivity string   `json:"last_activity"` // date-only precision
	AllPersons   []string `json:"all_persons"`
}

// Truncate clips s to max bytes on a rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && len(string(r)) > max {
		r = r[:len(r)-1]
	}
	return string(r)
}
