package board

import "context"

// Bucket is a named relative time window used to filter posts.
type Bucket string

const (
	BucketToday     Bucket = "today"
	BucketYesterday Bucket = "yesterday"
	BucketThisWeek  Bucket = "this_week"
	BucketLastWeek  Bucket = "last_week"
	BucketThisMonth Bucket = "this_month"
	BucketLastMonth Bucket = "last_month"
	BucketRecent    Bucket = "recent"
)

// Query bounds one evidence-gathering call.
type Query struct {
	// Client restricts posts to one organisational unit. Empty = default board.
	Client string
	// Limit caps the number of posts AFTER date filtering.
	Limit int
	// Bucket, if non-empty, keeps only posts whose date matches the window.
	Bucket Bucket
}

// Source is the contract both backends expose to the query layer.
//
// All methods degrade to empty results on partial or missing data; an error
// signals total source unavailability, not "nothing matched".
type Source interface {
	// Categories returns the known clients/boards, keyed by display name.
	Categories(ctx context.Context) (map[string]*Category, error)

	// Posts returns up to q.Limit posts for the query, in source order.
	Posts(ctx context.Context, q Query) ([]*Post, error)

	// PostsText renders the matching posts as a completion context string.
	// Empty string means no evidence.
	PostsText(ctx context.Context, q Query) (string, error)

	// Responsible resolves the most recently active author for a client
	// over a bounded recent window. Nil when nothing is attributable.
	Responsible(ctx context.Context, client string) (*ResponsiblePerson, error)
}

// Reloader is implemented by sources that can re-read their backing data
// without a full restart (the tabular backend's stand-in for re-login).
type Reloader interface {
	Reload(ctx context.Context) error
}

// Completer is the injected text-completion capability. Implementations
// live outside this package; the resolver and the query layer only need
// prompt-in, text-out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
