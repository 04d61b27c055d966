package feed

import (
	"sync"
)

type seenKey struct {
	title   string
	summary string
}

// NoveltyFilter tracks which (title, summary) pairs have already been
// admitted during this process's lifetime. It is a same-cycle fast path:
// the durable dedup guarantee comes from the storage upsert key.
type NoveltyFilter struct {
	seen map[seenKey]struct{}
	mu   sync.Mutex
}

func NewNoveltyFilter() *NoveltyFilter {
	return &NoveltyFilter{
		seen: make(map[seenKey]struct{}),
	}
}

// Admit reports whether the item is new. The first call for a given
// (title, summary) pair records it and returns true; every later call
// returns false without side effects.
func (n *NoveltyFilter) Admit(item Item) bool {
	key := seenKey{title: item.Title, summary: item.Summary}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.seen[key]; ok {
		return false
	}

	n.seen[key] = struct{}{}
	return true
}

func (n *NoveltyFilter) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}
