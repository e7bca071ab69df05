package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/models"
)

// MemoryStore is an in-memory Store used by tests, local development and
// the seeder's dry-run mode.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
	}
}

func (m *MemoryStore) Get(ctx context.Context, path, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[path][id]
	if !ok {
		return Document{}, apperrors.NotFound("document " + path + "/" + id)
	}
	return Document{ID: id, Data: cloneData(data)}, nil
}

func (m *MemoryStore) Set(ctx context.Context, path, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[path] == nil {
		m.collections[path] = make(map[string]map[string]any)
	}
	m.collections[path][id] = cloneData(data)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[path][id]
	if !ok {
		return apperrors.NotFound("document " + path + "/" + id)
	}
	for k, v := range cloneData(fields) {
		existing[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, path, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[path], id)
	return nil
}

func (m *MemoryStore) Add(ctx context.Context, path string, data map[string]any) (string, error) {
	id := uuid.NewString()
	return id, m.Set(ctx, path, id, data)
}

func (m *MemoryStore) Query(ctx context.Context, path string, filters ...Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for id, data := range m.collections[path] {
		if matchesFilters(data, filters) {
			out = append(out, Document{ID: id, Data: cloneData(data)})
		}
	}
	return out, nil
}

func (m *MemoryStore) Page(ctx context.Context, path, orderField string, after *Cursor, limit int) ([]Document, *Cursor, error) {
	m.mu.RLock()
	ids := lo.Keys(m.collections[path])
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: cloneData(m.collections[path][id])})
	}
	m.mu.RUnlock()

	// Descending by sort key, document id breaks ties so pagination stays
	// stable across equal timestamps.
	sort.Slice(docs, func(i, j int) bool {
		ki, kj := sortKeyString(docs[i].Data[orderField]), sortKeyString(docs[j].Data[orderField])
		if ki != kj {
			return ki > kj
		}
		return docs[i].ID > docs[j].ID
	})

	if after != nil {
		start := sort.Search(len(docs), func(i int) bool {
			k := sortKeyString(docs[i].Data[orderField])
			if k != after.SortKey {
				return k < after.SortKey
			}
			return docs[i].ID < after.DocID
		})
		docs = docs[start:]
	}

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	if len(docs) == 0 {
		return nil, nil, nil
	}

	last := docs[len(docs)-1]
	next := &Cursor{SortKey: sortKeyString(last.Data[orderField]), DocID: last.ID}
	return docs, next, nil
}

// Len reports the number of documents in a collection. Test helper.
func (m *MemoryStore) Len(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[path])
}

func matchesFilters(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || fieldString(v) != f.Value {
			return false
		}
	}
	return true
}

func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func sortKeyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(models.TimeLayout)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
