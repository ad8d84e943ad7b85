package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryVectorStore is a reference VectorStore implementation scoring
// items by keyword overlap rather than a real embedding model — the core
// does not prescribe an embedding backend (spec §4.8), so no concrete
// third-party embedding/ANN dependency is bound here; see DESIGN.md.
type InMemoryVectorStore struct {
	mu    sync.RWMutex
	items []SchemaItem
}

// NewInMemoryVectorStore constructs an empty store.
func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{}
}

func (s *InMemoryVectorStore) IndexItems(ctx context.Context, items []SchemaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]SchemaItem{}, items...)
	return nil
}

type scoredItem struct {
	item  SchemaItem
	score int
}

// Search ranks indexed items by the number of query tokens found in the
// item's name, description, or synonyms, case-insensitively.
func (s *InMemoryVectorStore) Search(ctx context.Context, queryText string, limit int) ([]SchemaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := tokenize(queryText)
	if len(tokens) == 0 {
		return nil, nil
	}

	var scored []scoredItem
	for _, it := range s.items {
		haystack := strings.ToLower(it.Name + " " + it.Description + " " + strings.Join(it.Synonyms, " "))
		score := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredItem{item: it, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]SchemaItem, len(scored))
	for i, si := range scored {
		out[i] = si.item
	}
	return out, nil
}

func (s *InMemoryVectorStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{"item_count": len(s.items)}, nil
}

func (s *InMemoryVectorStore) ListItems(ctx context.Context) ([]SchemaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SchemaItem{}, s.items...), nil
}

func (s *InMemoryVectorStore) Close() error { return nil }

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:'\"")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
