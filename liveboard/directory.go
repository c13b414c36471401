package liveboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jayz-blip/askboard/board"
	"github.com/jayz-blip/askboard/scrape"
)

// Pager is the navigable-session primitive the live backend needs once
// authenticated: go somewhere, read the current page.
type Pager interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) ([]byte, error)
	CurrentURL(ctx context.Context) (string, error)
}

// Directory discovers the board's categories from the navigation menu and
// caches them for the life of the process. Only Refresh invalidates the
// cache; discovery failures leave it empty rather than erroring, so a
// transient page problem degrades to "no known categories".
type Directory struct {
	rootURL string
	pager   Pager
	logger  *slog.Logger

	mu    sync.Mutex
	cache []*board.Category // discovery order; nil = not discovered yet
}

// NewDirectory creates a Directory over an authenticated session.
func NewDirectory(rootURL string, pager Pager, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{rootURL: rootURL, pager: pager, logger: logger}
}

// Discover returns the categories keyed by name. With useCache, a previous
// successful discovery is returned without touching the session.
func (d *Directory) Discover(ctx context.Context, useCache bool) map[string]*board.Category {
	ordered := d.DiscoverOrdered(ctx, useCache)
	out := make(map[string]*board.Category, len(ordered))
	for _, c := range ordered {
		out[c.Name] = c
	}
	return out
}

// DiscoverOrdered is Discover preserving menu order — the order client-name
// resolution ties break on.
func (d *Directory) DiscoverOrdered(ctx context.Context, useCache bool) []*board.Category {
	d.mu.Lock()
	defer d.mu.Unlock()

	if useCache && d.cache != nil {
		return d.cache
	}

	cats := d.discover(ctx)
	if cats == nil {
		// Total failure: report empty but keep the cache slot open so the
		// next call retries.
		return nil
	}
	d.cache = cats
	return cats
}

// Refresh drops the cached categories. The next Discover re-reads the menu.
func (d *Directory) Refresh() {
	d.mu.Lock()
	d.cache = nil
	d.mu.Unlock()
}

func (d *Directory) discover(ctx context.Context) []*board.Category {
	if err := d.pager.Navigate(ctx, d.rootURL); err != nil {
		d.logger.Warn("directory: navigate to menu failed", "error", err)
		return nil
	}
	markup, err := d.pager.HTML(ctx)
	if err != nil {
		d.logger.Warn("directory: read menu page failed", "error", err)
		return nil
	}

	base := d.rootURL
	if current, err := d.pager.CurrentURL(ctx); err == nil && current != "" {
		base = current
	}

	cats := scrape.Categories(markup, base)
	d.logger.Info("directory: discovered categories", "count", len(cats))
	return cats
}
