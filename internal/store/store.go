package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ListQuery mirrors the list endpoint parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Sort   string // json field name, leading "-" for descending
	Search string
	// SearchFields restricts free-text search to these json fields.
	SearchFields []string
	// Filters are exact-match constraints on json fields.
	Filters map[string]string
}

// Collection is an in-memory, insertion-ordered set of entities keyed by a
// server-assigned uuid. It stands in for the real backend's tables; nothing
// survives process exit.
type Collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string

	id    func(T) string
	setID func(*T, string)
}

// NewCollection builds a collection with accessors for the entity id field.
func NewCollection[T any](id func(T) string, setID func(*T, string)) *Collection[T] {
	return &Collection[T]{
		items: map[string]T{},
		id:    id,
		setID: setID,
	}
}

// Insert assigns a fresh id and stores the entity.
func (c *Collection[T]) Insert(v T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.setID(&v, id)
	c.items[id] = v
	c.order = append(c.order, id)
	return v
}

// Seed stores an entity keeping its pre-set id; used for fixtures.
func (c *Collection[T]) Seed(v T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.id(v)
	if id == "" {
		id = uuid.NewString()
		c.setID(&v, id)
	}
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = v
	return v
}

// Get returns the entity for id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	return v, ok
}

// Replace swaps the stored entity wholesale, preserving its id.
func (c *Collection[T]) Replace(id string, v T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		var zero T
		return zero, false
	}
	c.setID(&v, id)
	c.items[id] = v
	return v, true
}

// Update applies a partial mutation under the write lock.
func (c *Collection[T]) Update(id string, apply func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	apply(&v)
	c.setID(&v, id)
	c.items[id] = v
	return v, true
}

// Delete removes the entity. Returns false when it was already gone.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Len reports the number of stored entities.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// List filters, sorts and pages the collection. Total counts matches across
// all pages, not just the returned slice.
func (c *Collection[T]) List(q ListQuery) (items []T, total int) {
	c.mu.RLock()
	all := make([]T, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.items[id])
	}
	c.mu.RUnlock()

	matched := make([]T, 0, len(all))
	docs := make([]map[string]any, 0, len(all))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, v := range all {
		doc := toDoc(v)
		if !matchFilters(doc, q.Filters) {
			continue
		}
		if search != "" && !matchSearch(doc, q.SearchFields, search) {
			continue
		}
		matched = append(matched, v)
		docs = append(docs, doc)
	}

	if field, desc, ok := parseSort(q.Sort); ok {
		idx := make([]int, len(matched))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			less := lessValue(docs[idx[a]][field], docs[idx[b]][field])
			if desc {
				return !less && !equalValue(docs[idx[a]][field], docs[idx[b]][field])
			}
			return less
		})
		sorted := make([]T, len(matched))
		for i, j := range idx {
			sorted[i] = matched[j]
		}
		matched = sorted
	}

	total = len(matched)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func parseSort(s string) (field string, desc bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, false
	}
	if strings.HasPrefix(s, "-") {
		return strings.TrimPrefix(s, "-"), true, true
	}
	return s, false, true
}

// toDoc flattens an entity through its json encoding so filtering and
// sorting speak the same field names as the wire format.
func toDoc[T any](v T) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return map[string]any{}
	}
	return doc
}

func matchFilters(doc map[string]any, filters map[string]string) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		got, ok := doc[field]
		if !ok {
			return false
		}
		if stringValue(got) != want {
			return false
		}
	}
	return true
}

func matchSearch(doc map[string]any, fields []string, search string) bool {
	if len(fields) == 0 {
		for _, v := range doc {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), search) {
				return true
			}
		}
		return false
	}
	for _, f := range fields {
		if s, ok := doc[f].(string); ok && strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func lessValue(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return stringValue(a) < stringValue(b)
}

func equalValue(a, b any) bool {
	return stringValue(a) == stringValue(b)
}
