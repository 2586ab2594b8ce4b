package items

import (
	"strconv"
	"sync"
)

// Store is an in-memory item repository. It exists so the scaffold runs
// without a database; the locking discipline matches what a real
// repository would need.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]Item
	order   []string
	counter int64
}

// NewStore creates a store seeded with demo inventory.
func NewStore() *Store {
	s := &Store{
		byID: make(map[string]Item),
	}
	s.insert(Item{Name: "Widget", Description: "A useful widget", Price: 9.99, Quantity: 100})
	s.insert(Item{Name: "Gadget", Description: "A cool gadget", Price: 19.99, Quantity: 50})
	return s
}

func (s *Store) insert(item Item) Item {
	s.counter++
	item.ID = strconv.FormatInt(s.counter, 10)
	s.byID[item.ID] = item
	s.order = append(s.order, item.ID)
	return item
}

// List returns one page of items in insertion order plus the total count.
func (s *Store) List(page, pageSize int) ([]Item, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	start := (page - 1) * pageSize
	if start >= total {
		return []Item{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]Item, 0, end-start)
	for _, id := range s.order[start:end] {
		out = append(out, s.byID[id])
	}
	return out, total
}

// Create stores a new item and returns it with its assigned ID.
func (s *Store) Create(req CreateRequest) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
}

// Get returns an item by ID.
func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.byID[id]
	if !ok {
		return Item{}, notFound(id)
	}
	return item, nil
}

// Update applies a partial update to an existing item.
func (s *Store) Update(id string, req UpdateRequest) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.byID[id]
	if !ok {
		return Item{}, notFound(id)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	s.byID[id] = item
	return item, nil
}

// Delete removes an item by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return notFound(id)
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
