package repository

import (
	"context"
	"sync"

	"quote-templater/internal/model"
)

// MemoryStore keeps entities in maps. It backs tests and the fixtures-only mode.
type MemoryStore struct {
	mu           sync.RWMutex
	quotes       map[int64]model.Quote
	destinations map[int64]model.Destination
	sites        map[int64]model.Site
	users        map[int64]model.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes:       map[int64]model.Quote{},
		destinations: map[int64]model.Destination{},
		sites:        map[int64]model.Site{},
		users:        map[int64]model.User{},
	}
}

func (s *MemoryStore) Seed(_ context.Context, f model.Fixtures) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range f.Quotes {
		s.quotes[q.ID] = q
	}
	for _, d := range f.Destinations {
		s.destinations[d.ID] = d
	}
	for _, st := range f.Sites {
		s.sites[st.ID] = st
	}
	for _, u := range f.Users {
		s.users[u.ID] = u
	}
	return nil
}

func (s *MemoryStore) QuoteByID(_ context.Context, id int64) (model.Quote, error) {
	return get(&s.mu, s.quotes, id)
}

func (s *MemoryStore) DestinationByID(_ context.Context, id int64) (model.Destination, error) {
	return get(&s.mu, s.destinations, id)
}

func (s *MemoryStore) SiteByID(_ context.Context, id int64) (model.Site, error) {
	return get(&s.mu, s.sites, id)
}

func (s *MemoryStore) UserByID(_ context.Context, id int64) (model.User, error) {
	return get(&s.mu, s.users, id)
}

func (s *MemoryStore) Close() error { return nil }

func get[T any](mu *sync.RWMutex, m map[int64]T, id int64) (T, error) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}
