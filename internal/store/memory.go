package store

import (
	"context"
	"sync"
)

// Memory is a thread-safe in-memory Store. It is the shipped default,
// seeded from a YAML file; swap in a database-backed Store for production.
type Memory struct {
	mu          sync.RWMutex
	products    map[string]*Product
	subscribers map[string]map[string]*Subscriber // productID → identity → record
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		products:    make(map[string]*Product),
		subscribers: make(map[string]map[string]*Subscriber),
	}
}

// ProductExists implements Store.
func (m *Memory) ProductExists(_ context.Context, productID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.products[productID]
	return ok, nil
}

// FindSubscriber implements Store. Callers must not modify the returned
// record.
func (m *Memory) FindSubscriber(_ context.Context, productID, identity string) (*Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.subscribers[productID]
	if !ok {
		return nil, ErrNotFound
	}
	sub, ok := set[identity]
	if !ok {
		return nil, ErrNotFound
	}
	return sub, nil
}

// AddProduct stores or replaces a product record.
func (m *Memory) AddProduct(p *Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	if _, ok := m.subscribers[p.ID]; !ok {
		m.subscribers[p.ID] = make(map[string]*Subscriber)
	}
}

// PutSubscriber stores or replaces a subscriber record within a product's
// subscriber set. The product is created implicitly if unknown, mirroring
// how the document store auto-creates collections.
func (m *Memory) PutSubscriber(productID string, s *Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.subscribers[productID]
	if !ok {
		set = make(map[string]*Subscriber)
		m.subscribers[productID] = set
		if _, ok := m.products[productID]; !ok {
			m.products[productID] = &Product{ID: productID}
		}
	}
	set[s.Identity] = s
}

// DeleteSubscriber removes a subscriber record; no-op if absent.
func (m *Memory) DeleteSubscriber(productID, identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.subscribers[productID]; ok {
		delete(set, identity)
	}
}

// Apply replaces the entire store contents with the seed's.
func (m *Memory) Apply(seed *Seed) {
	products := make(map[string]*Product, len(seed.Products))
	subscribers := make(map[string]map[string]*Subscriber, len(seed.Products))

	for _, sp := range seed.Products {
		products[sp.ID] = sp.product()
		set := make(map[string]*Subscriber, len(sp.Subscribers))
		for _, ss := range sp.Subscribers {
			sub := ss.subscriber()
			set[sub.Identity] = sub
		}
		subscribers[sp.ID] = set
	}

	m.mu.Lock()
	m.products = products
	m.subscribers = subscribers
	m.mu.Unlock()
}
