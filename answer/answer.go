// Package answer turns a natural-language question into a grounded reply:
// it detects the client, date window and intent in the question, gathers
// board evidence through a board.Source, and completes a Korean prompt
// built from that evidence.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jayz-blip/askboard/board"
)

// Config configures the query service.
type Config struct {
	// KnownClients are names checked against the question before any
	// category discovery. Matching is plain substring, longest names first.
	KnownClients []string

	// ClientLimit caps evidence posts when a client was detected;
	// DefaultLimit applies otherwise. A detected client narrows the board,
	// so more of it fits the prompt. Defaults: 30 and 20.
	ClientLimit  int
	DefaultLimit int

	// HistoryDepth bounds per-session conversation turns. Default: 5.
	HistoryDepth int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.ClientLimit <= 0 {
		c.ClientLimit = 30
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 20
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = 5
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Reply is one answered question.
type Reply struct {
	SessionID   string                   `json:"session_id"`
	Answer      string                   `json:"answer"`
	Client      string                   `json:"client,omitempty"`
	Bucket      board.Bucket             `json:"date_filter,omitempty"`
	Responsible *board.ResponsiblePerson `json:"responsible_person,omitempty"`
}

// Service answers questions against one evidence source.
type Service struct {
	cfg       Config
	src       board.Source
	completer board.Completer
	resolver  *board.ClientResolver
	hist      *historyStore
}

// New creates the service. The completer answers questions and backs the
// assisted pass of client-name resolution.
func New(src board.Source, completer board.Completer, cfg Config) *Service {
	cfg.defaults()
	// Longest first so "블루타이거 CS" wins over "블루타이거"; lexicographic
	// among equal lengths keeps detection stable across restarts.
	sort.Slice(cfg.KnownClients, func(i, j int) bool {
		a, b := cfg.KnownClients[i], cfg.KnownClients[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return &Service{
		cfg:       cfg,
		src:       src,
		completer: completer,
		resolver:  &board.ClientResolver{Completer: completer},
		hist:      newHistoryStore(cfg.HistoryDepth),
	}
}

// Ask answers one question. An empty sessionID starts a new conversation;
// the returned Reply carries the id to continue it.
func (s *Service) Ask(ctx context.Context, sessionID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("empty message")
	}
	sessionID = s.hist.session(sessionID)

	client := s.detectClient(ctx, message)
	bucket := detectBucket(message)
	problem := isProblemQuery(message)

	var responsible *board.ResponsiblePerson
	if isContactQuery(message) && client != "" {
		rp, err := s.src.Responsible(ctx, client)
		if err != nil {
			s.cfg.Logger.Warn("answer: responsible lookup failed",
				"client", client, "error", err)
		} else {
			responsible = rp
		}
	}

	limit := s.cfg.DefaultLimit
	if client != "" {
		limit = s.cfg.ClientLimit
	}
	evidence, err := s.src.PostsText(ctx, board.Query{
		Client: client,
		Limit:  limit,
		Bucket: bucket,
	})
	if err != nil {
		// Evidence gathering is best-effort: answer from general knowledge.
		s.cfg.Logger.Warn("answer: evidence gathering failed", "error", err)
		evidence = ""
	}

	prompt := buildPrompt(promptInput{
		message:     message,
		evidence:    evidence,
		problem:     problem,
		responsible: responsible,
		history:     s.hist.get(sessionID),
	})
	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	text = strings.TrimSpace(text)

	s.hist.append(sessionID, exchange{user: message, assistant: text})
	return &Reply{
		SessionID:   sessionID,
		Answer:      text,
		Client:      client,
		Bucket:      bucket,
		Responsible: responsible,
	}, nil
}

// ClearHistory drops a session's conversation, or all sessions when
// sessionID is empty.
func (s *Service) ClearHistory(sessionID string) {
	s.hist.clear(sessionID)
	s.cfg.Logger.Info("answer: history cleared", "session", sessionID)
}

// Clients returns the known client names: the configured ones plus what the
// source discovers, deduplicated and sorted.
func (s *Service) Clients(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range s.cfg.KnownClients {
		add(name)
	}
	cats, err := s.src.Categories(ctx)
	if err != nil {
		if len(out) == 0 {
			return nil, err
		}
		s.cfg.Logger.Warn("answer: category discovery failed", "error", err)
	}
	for name := range cats {
		add(name)
	}
	sort.Strings(out)
	return out, nil
}

// Refresh reloads the source's backing data when it supports that.
func (s *Service) Refresh(ctx context.Context) error {
	if r, ok := s.src.(board.Reloader); ok {
		return r.Reload(ctx)
	}
	return nil
}

// orderedCategories is the optional source capability exposing categories
// in discovery order, which the resolver's positional tie-break wants.
type orderedCategories interface {
	CategoriesOrdered(ctx context.Context) ([]*board.Category, error)
}

// detectClient finds which client the question is about. Configured names
// win; otherwise discovered category names go through the resolver, whose
// assisted pass may consult the completer. "" means the default board.
func (s *Service) detectClient(ctx context.Context, message string) string {
	for _, name := range s.cfg.KnownClients {
		if strings.Contains(message, name) {
			return name
		}
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		s.cfg.Logger.Warn("answer: category discovery failed", "error", err)
		return ""
	}
	if len(names) == 0 {
		return ""
	}

	client := s.resolver.Resolve(ctx, message, names)
	if client != "" {
		s.cfg.Logger.Info("answer: client detected", "client", client)
	}
	return client
}

// categoryNames returns the discovered category names, in menu order when
// the source preserves one and sorted otherwise.
func (s *Service) categoryNames(ctx context.Context) ([]string, error) {
	if oc, ok := s.src.(orderedCategories); ok {
		cats, err := oc.CategoriesOrdered(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		return names, nil
	}

	cats, err := s.src.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
