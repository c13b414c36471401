// Package tableboard serves board posts out of a static tabular export
// (two CSV files, posts and comments) instead of the live site. It loads
// the export into in-memory SQLite at startup and answers the same Source
// contract as the live backend, so the query layer cannot tell them apart.
package tableboard

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	_ "modernc.org/sqlite"

	"github.com/jayz-blip/askboard/board"
	"github.com/jayz-blip/askboard/tableboard/internal/store"
)

// Config locates the export files.
type Config struct {
	// PostsPath and CommentsPath point at the two export tables. Either may
	// be missing; a missing table is an empty table.
	PostsPath    string
	CommentsPath string

	// DefaultLimit caps Posts results when the query does not.
	DefaultLimit int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 50
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// responsibleWindow bounds how many recent posts feed the
// responsible-person aggregation.
const responsibleWindow = 10

// Source implements board.Source over the loaded export.
type Source struct {
	cfg   Config
	db    *sql.DB
	store *store.Store
	strip *bluemonday.Policy

	now func() time.Time
}

// New opens an in-memory database, applies the schema and loads the export.
func New(ctx context.Context, cfg Config) (*Source, error) {
	cfg.defaults()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// In-memory SQLite vanishes when its sole connection closes.
	db.SetMaxOpenConns(1)

	if err := store.ApplySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Source{
		cfg:   cfg,
		db:    db,
		store: store.NewStore(db),
		strip: bluemonday.StrictPolicy(),
		now:   time.Now,
	}
	if err := s.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Source) Close() error {
	return s.db.Close()
}

// Reload re-reads the export files, replacing all loaded rows.
func (s *Source) Reload(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	return s.load(ctx)
}

func (s *Source) load(ctx context.Context) error {
	posts, err := readTable(s.cfg.PostsPath, s.cfg.Logger)
	if err != nil {
		return err
	}
	comments, err := readTable(s.cfg.CommentsPath, s.cfg.Logger)
	if err != nil {
		return err
	}

	if err := s.store.InsertPosts(ctx, postRows(posts, s.clean)); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	if err := s.store.InsertComments(ctx, commentRows(comments, s.clean)); err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	s.cfg.Logger.Info("tableboard: export loaded",
		"posts", len(posts), "comments", len(comments))
	return nil
}

// clean strips markup and entities the export carries over from the board's
// rich-text editor.
func (s *Source) clean(raw string) string {
	text := s.strip.Sanitize(raw)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, " ", " ")
	return strings.TrimSpace(text)
}

// Categories returns one Category per distinct client name in the export.
// There is no navigation URL in tabular data, so URL stays empty.
func (s *Source) Categories(ctx context.Context) (map[string]*board.Category, error) {
	names, err := s.store.ClientNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*board.Category, len(names))
	for _, name := range names {
		out[name] = &board.Category{Name: name}
	}
	return out, nil
}

// ClientNames returns the distinct client names, sorted, for name resolution.
func (s *Source) ClientNames(ctx context.Context) ([]string, error) {
	return s.store.ClientNames(ctx)
}

// Posts returns up to q.Limit posts, busiest threads first, with their
// comments attached. The date bucket is applied before the limit.
func (s *Source) Posts(ctx context.Context, q board.Query) ([]*board.Post, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	rows, err := s.store.ListPosts(ctx, strings.TrimSpace(q.Client))
	if err != nil {
		return nil, err
	}

	now := s.now()
	var out []*board.Post
	for _, r := range rows {
		if q.Bucket != "" && !board.MatchesBucket(r.RegDate, q.Bucket, now) {
			continue
		}
		post := s.toPost(r)
		if err := s.attachComments(ctx, r.ID, post); err != nil {
			return nil, err
		}
		out = append(out, post)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Source) toPost(r *store.PostRow) *board.Post {
	content := r.Content
	if content == "" {
		content = r.Subject
	}
	author := r.Writer
	if author == "" {
		author = board.UnknownAuthor
	}
	return &board.Post{
		Title:        r.Subject,
		Content:      board.Truncate(content, board.MaxContentLen),
		Author:       author,
		Date:         r.RegDate,
		CommentCount: r.CommCnt,
		Client:       r.Name,
	}
}

func (s *Source) attachComments(ctx context.Context, postID string, post *board.Post) error {
	rows, err := s.store.CommentsForPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, c := range rows {
		author := c.Writer
		if author == "" {
			author = board.UnknownAuthor
		}
		post.Comments = append(post.Comments, &board.Comment{
			Author: author,
			Text:   board.Truncate(c.Content, board.MaxCommentLen),
			Date:   c.RegDate,
		})
	}
	return nil
}

// PostsText renders the matching posts as a completion context block.
func (s *Source) PostsText(ctx context.Context, q board.Query) (string, error) {
	posts, err := s.Posts(ctx, q)
	if err != nil {
		return "", err
	}
	return board.RenderPosts(posts), nil
}

// Responsible aggregates recent activity for a client into the most
// recently active author.
func (s *Source) Responsible(ctx context.Context, client string) (*board.ResponsiblePerson, error) {
	rows, err := s.store.RecentPosts(ctx, strings.TrimSpace(client), responsibleWindow)
	if err != nil {
		return nil, err
	}
	posts := make([]*board.Post, 0, len(rows))
	for _, r := range rows {
		post := s.toPost(r)
		if err := s.attachComments(ctx, r.ID, post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return board.ResolveResponsible(posts), nil
}
