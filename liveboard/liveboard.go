// Package liveboard implements the live-scrape backend of the board.Source
// contract: a logged-in Chrome session, category discovery from the
// navigation menu, and listing/detail extraction per query.
package liveboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jayz-blip/askboard/board"
	"github.com/jayz-blip/askboard/liveboard/internal/browser"
	"github.com/jayz-blip/askboard/scrape"
)

// ErrLoginRejected is returned when the board accepts the connection but
// refuses the credentials.
var ErrLoginRejected = errors.New("liveboard: login rejected")

// responsibleWindow bounds how many recent posts feed the responsible-person
// aggregation.
const responsibleWindow = 10

// Driver is the authenticated browser session the backend drives. The
// production implementation is the Rod-based Session; tests substitute a
// canned-page fake.
type Driver interface {
	Pager
	Start(ctx context.Context) error
	Login(ctx context.Context, entryURL, email, password string) (bool, error)
	Close() error
}

// Source is the live board.Source implementation.
type Source struct {
	cfg Config
	drv Driver
	dir *Directory
	now func() time.Time

	mu    sync.Mutex
	ready bool
}

// New creates a live Source with a Rod-backed session.
func New(cfg Config) *Source {
	cfg.defaults()
	drv := browser.NewSession(browser.Config{
		RemoteURL:   cfg.RemoteBrowser,
		SettleDelay: cfg.SettleDelay,
		NavTimeout:  cfg.NavTimeout,
		Logger:      cfg.Logger,
	})
	return NewWithDriver(cfg, drv)
}

// NewWithDriver creates a live Source over a caller-provided session.
func NewWithDriver(cfg Config, drv Driver) *Source {
	cfg.defaults()
	return &Source{
		cfg: cfg,
		drv: drv,
		dir: NewDirectory(cfg.URL, drv, cfg.Logger),
		now: time.Now,
	}
}

// ensureReady lazily starts the browser and logs in, once.
func (s *Source) ensureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := s.drv.Start(ctx); err != nil {
		return err
	}
	ok, err := s.drv.Login(ctx, s.cfg.URL, s.cfg.Email, s.cfg.Password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLoginRejected
	}
	s.ready = true
	return nil
}

// Refresh re-authenticates the session and drops the category cache. The
// HTTP layer exposes this as the board-refresh operation.
func (s *Source) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()
	s.dir.Refresh()
	return s.ensureReady(ctx)
}

// Reload implements board.Reloader. For the live backend a reload is a full
// Refresh: re-login plus category rediscovery.
func (s *Source) Reload(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Close shuts the browser down.
func (s *Source) Close() error {
	return s.drv.Close()
}

// Categories implements board.Source.
func (s *Source) Categories(ctx context.Context) (map[string]*board.Category, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	return s.dir.Discover(ctx, true), nil
}

// CategoriesOrdered returns categories in menu order, for positional
// tie-breaks in name resolution.
func (s *Source) CategoriesOrdered(ctx context.Context) ([]*board.Category, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	return s.dir.DiscoverOrdered(ctx, true), nil
}

// Posts implements board.Source: navigate to the relevant listing, extract
// rows, then replace listing-time content with detail-page bodies for the
// first few posts.
func (s *Source) Posts(ctx context.Context, q board.Query) ([]*board.Post, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	listURL, client := s.listingTarget(ctx, q.Client)
	if err := s.drv.Navigate(ctx, listURL); err != nil {
		return nil, err
	}
	markup, err := s.drv.HTML(ctx)
	if err != nil {
		return nil, err
	}

	base := listURL
	if current, cerr := s.drv.CurrentURL(ctx); cerr == nil && current != "" {
		base = current
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	var filter scrape.DateFilter
	if q.Bucket != "" {
		now := s.now()
		bucket := q.Bucket
		filter = func(date string) bool { return board.MatchesBucket(date, bucket, now) }
	}

	posts := scrape.Listing(markup, base, limit, filter)
	for _, p := range posts {
		p.Client = client
	}

	s.fetchDetails(ctx, posts)
	return posts, nil
}

// listingTarget maps a client name to its listing URL, falling back to the
// default board when the client is unknown or unset.
func (s *Source) listingTarget(ctx context.Context, client string) (url, name string) {
	if client == "" {
		return s.cfg.URL, ""
	}
	if pid, ok := s.cfg.ClientBoards[client]; ok {
		return BoardURLForPID(s.cfg.URL, pid), client
	}
	cats := s.dir.Discover(ctx, true)
	if c, ok := cats[client]; ok {
		return c.URL, c.Name
	}
	s.cfg.Logger.Warn("liveboard: unknown client, using default board", "client", client)
	return s.cfg.URL, client
}

// fetchDetails replaces listing-time content with the real body for the
// first DetailFetches posts. Serial on purpose: the session has a single
// current page. Failures keep the listing-time content.
func (s *Source) fetchDetails(ctx context.Context, posts []*board.Post) {
	n := s.cfg.DetailFetches
	for i, p := range posts {
		if i >= n {
			break
		}
		if p.URL == "" {
			continue
		}
		if err := s.drv.Navigate(ctx, p.URL); err != nil {
			s.cfg.Logger.Warn("liveboard: detail navigate failed", "url", p.URL, "error", err)
			continue
		}
		markup, err := s.drv.HTML(ctx)
		if err != nil {
			s.cfg.Logger.Warn("liveboard: detail read failed", "url", p.URL, "error", err)
			continue
		}
		body, comments := scrape.Detail(markup)
		if body != "" && len(body) > len(p.Title) {
			p.Content = board.Truncate(body, board.MaxContentLen)
		}
		if len(comments) > 0 {
			p.Comments = comments
		}
	}
}

// PostsText implements board.Source.
func (s *Source) PostsText(ctx context.Context, q board.Query) (string, error) {
	posts, err := s.Posts(ctx, q)
	if err != nil {
		return "", err
	}
	return board.RenderPosts(posts), nil
}

// Responsible implements board.Source: aggregate authorship over a bounded
// window of the client's most recent posts.
func (s *Source) Responsible(ctx context.Context, client string) (*board.ResponsiblePerson, error) {
	posts, err := s.Posts(ctx, board.Query{Client: client, Limit: responsibleWindow})
	if err != nil {
		return nil, err
	}
	return board.ResolveResponsible(posts), nil
}
