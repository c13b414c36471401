// Package browser manages the single Chrome session behind the live
// backend: launch or remote-connect via Rod, apply stealth, log in to the
// board, and expose navigate / current-HTML primitives.
//
// The session is a shared mutable resource with one logical "current page"
// at a time; all operations serialise on an internal lock.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Config configures the board session.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// SettleDelay is the pause between navigation and parse, for pages
	// that finish rendering after the load event. Default: 2s.
	SettleDelay time.Duration

	// NavTimeout bounds a single navigation. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.SettleDelay <= 0 {
		c.SettleDelay = 2 * time.Second
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session owns one Chrome instance and one page.
type Session struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	closed  bool
}

// NewSession creates a Session. Call Start before any navigation.
func NewSession(cfg Config) *Session {
	cfg.defaults()
	return &Session{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and opens the
// working page with stealth applied.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("browser: session is closed")
	}
	if s.page != nil {
		return nil
	}

	log := s.cfg.Logger

	var wsURL string
	if s.cfg.RemoteURL != "" {
		wsURL = s.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(true).
			NoSandbox(true).
			Set("disable-blink-features", "AutomationControlled").
			Set("window-size", "1920,1080")
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("browser: launched local chrome")
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.cleanupLocked()
		return fmt.Errorf("browser: create page: %w", err)
	}
	s.page = page
	return nil
}

// Close shuts down Chrome.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cleanupLocked()
	return nil
}

func (s *Session) cleanupLocked() {
	if s.page != nil {
		s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}

// Navigate loads url on the working page and waits for it to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(ctx, url)
}

func (s *Session) navigateLocked(ctx context.Context, url string) error {
	if s.page == nil {
		return fmt.Errorf("browser: session not started")
	}

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		s.cfg.Logger.Warn("browser: wait load timeout", "url", url, "error", err)
	}
	s.settle(ctx)
	return nil
}

// settle sleeps the configured delay, honouring cancellation.
func (s *Session) settle(ctx context.Context) {
	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
	}
}

// HTML serialises the complete DOM of the current page.
func (s *Session) HTML(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return nil, fmt.Errorf("browser: session not started")
	}
	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return "", fmt.Errorf("browser: session not started")
	}
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, nil
}
