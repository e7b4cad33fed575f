package listview

import (
	"sync"

	"garageclient/internal/client"
)

const defaultPageSize = 10

// State holds the mutable query state driving one list view. Changing any
// field other than the page itself resets the page to 1, and every change
// writes the snapshot for this resource path.
type State struct {
	mu sync.Mutex

	path  string
	store SnapshotStore

	page     int
	pageSize int
	sort     string
	search   string
	filters  map[string]string

	onChange func()
}

// Option configures initial state.
type Option func(*State)

// WithDefaults sets the initial sort and page size used when no snapshot
// exists for the path.
func WithDefaults(sort string, pageSize int) Option {
	return func(s *State) {
		if sort != "" {
			s.sort = sort
		}
		if pageSize > 0 {
			s.pageSize = pageSize
		}
	}
}

// NewState builds list state for a resource path. If the store holds a
// snapshot for the path, all four persisted fields seed the state before
// the first load.
func NewState(path string, store SnapshotStore, opts ...Option) *State {
	s := &State{
		path:     path,
		store:    store,
		page:     1,
		pageSize: defaultPageSize,
		filters:  map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if store != nil {
		if snap, ok := store.Load(path); ok {
			s.page = snap.Page
			s.pageSize = snap.PageSize
			s.search = snap.Search
			s.sort = snap.Sort
			if s.page < 1 {
				s.page = 1
			}
			if s.pageSize < 1 {
				s.pageSize = defaultPageSize
			}
		}
	}
	return s
}

// OnChange registers the reactive hook fired after every state change.
// The CRUD controller uses it to trigger reloads.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *State) Page() int     { s.mu.Lock(); defer s.mu.Unlock(); return s.page }
func (s *State) PageSize() int { s.mu.Lock(); defer s.mu.Unlock(); return s.pageSize }
func (s *State) Sort() string  { s.mu.Lock(); defer s.mu.Unlock(); return s.sort }
func (s *State) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// Filter returns one extra filter value.
func (s *State) Filter(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters[key]
}

// SetPage moves to another page without touching any other field.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.apply(func() { s.page = page })
}

func (s *State) SetPageSize(size int) {
	if size < 1 {
		size = defaultPageSize
	}
	s.apply(func() {
		s.pageSize = size
		s.page = 1
	})
}

func (s *State) SetSort(sort string) {
	s.apply(func() {
		s.sort = sort
		s.page = 1
	})
}

func (s *State) SetSearch(search string) {
	s.apply(func() {
		s.search = search
		s.page = 1
	})
}

// SetFilter sets a resource-specific filter; empty value removes it.
func (s *State) SetFilter(key, value string) {
	s.apply(func() {
		if value == "" {
			delete(s.filters, key)
		} else {
			s.filters[key] = value
		}
		s.page = 1
	})
}

// Query builds the descriptor for the current state.
func (s *State) Query() client.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}
	return client.Query{
		Page:    s.page,
		Limit:   s.pageSize,
		Sort:    s.sort,
		Search:  s.search,
		Filters: filters,
	}
}

// apply runs a mutation, persists the snapshot, and fires the change hook
// outside the lock.
func (s *State) apply(mutate func()) {
	s.mu.Lock()
	mutate()
	if s.store != nil {
		s.store.Save(s.path, Snapshot{
			Page:     s.page,
			PageSize: s.pageSize,
			Search:   s.search,
			Sort:     s.sort,
		})
	}
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}
