package answer

import (
	"sync"

	"github.com/google/uuid"
)

// exchange is one user/assistant turn pair.
type exchange struct {
	user      string
	assistant string
}

// historyStore keeps per-session conversation history, bounded per session.
type historyStore struct {
	mu    sync.Mutex
	depth int
	byID  map[string][]exchange
}

func newHistoryStore(depth int) *historyStore {
	return &historyStore{
		depth: depth,
		byID:  make(map[string][]exchange),
	}
}

// session returns the id unchanged, or mints one when empty.
func (h *historyStore) session(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (h *historyStore) get(id string) []exchange {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byID[id]
}

func (h *historyStore) append(id string, ex exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hist := append(h.byID[id], ex)
	if len(hist) > h.depth {
		hist = hist[len(hist)-h.depth:]
	}
	h.byID[id] = hist
}

// clear drops one session's history, or every session when id is empty.
func (h *historyStore) clear(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id == "" {
		h.byID = make(map[string][]exchange)
		return
	}
	delete(h.byID, id)
}
