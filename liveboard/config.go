package liveboard

import (
	"log/slog"
	"time"
)

// Config configures the live backend.
type Config struct {
	// URL is the board's entry page (also the login page).
	URL string
	// Email and Password are the board credentials.
	Email    string
	Password string

	// RemoteBrowser is the WebSocket URL of an external Chrome.
	// Empty = launch a local one.
	RemoteBrowser string

	// ClientBoards maps a client name to its board pid. Configured entries
	// win over menu discovery, so well-known clients resolve without a
	// navigation round-trip.
	ClientBoards map[string]int

	// DetailFetches caps how many posts per listing call get a detail-page
	// fetch. Detail navigations are serial and dominate latency, so this
	// trades completeness for response time. Default: 5.
	DetailFetches int

	// DefaultLimit is the post cap when a query does not set one. Default: 50.
	DefaultLimit int

	// SettleDelay and NavTimeout are passed through to the browser session.
	SettleDelay time.Duration
	NavTimeout  time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DetailFetches <= 0 {
		c.DetailFetches = 5
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 50
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
