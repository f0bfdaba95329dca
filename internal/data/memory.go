package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// errDuplicateKey mirrors a unique-constraint failure in the SQL stores.
var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

// memoryStore keeps both tables in maps. It backs the "memory" database
// driver and the handler tests.
type memoryStore struct {
	mu        sync.Mutex
	books     map[string]Book
	customers map[int64]Customer
	nextID    int64
}

// NewMemoryModels returns Models backed by process memory. Nothing survives
// a restart.
func NewMemoryModels() Models {
	s := &memoryStore{}
	s.clear()

	return Models{
		Books:     memoryBooks{s},
		Customers: memoryCustomers{s},
		reset: func(ctx context.Context) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.clear()
			return nil
		},
	}
}

func (s *memoryStore) clear() {
	s.books = make(map[string]Book)
	s.customers = make(map[int64]Customer)
	s.nextID = 0
}

type memoryBooks struct{ s *memoryStore }

func (m memoryBooks) Get(ctx context.Context, isbn string) (*Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	book, ok := m.s.books[isbn]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &book, nil
}

func (m memoryBooks) Insert(ctx context.Context, book *Book) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.books[book.ISBN]; exists {
		return fmt.Errorf("insert book: %w", errDuplicateKey)
	}
	m.s.books[book.ISBN] = *book
	return nil
}

func (m memoryBooks) Update(ctx context.Context, isbn string, book *Book) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.books[isbn]; !exists {
		return 0, nil
	}
	if book.ISBN != isbn {
		if _, taken := m.s.books[book.ISBN]; taken {
			return 0, fmt.Errorf("update book: %w", errDuplicateKey)
		}
		delete(m.s.books, isbn)
	}
	m.s.books[book.ISBN] = *book
	return 1, nil
}

type memoryCustomers struct{ s *memoryStore }

func (m memoryCustomers) Get(ctx context.Context, id int64) (*Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	customer, ok := m.s.customers[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &customer, nil
}

func (m memoryCustomers) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, customer := range m.s.customers {
		if customer.UserID == userID {
			return &customer, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m memoryCustomers) Insert(ctx context.Context, customer *Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.customers {
		if existing.UserID == customer.UserID {
			return fmt.Errorf("insert customer: %w", errDuplicateKey)
		}
	}

	m.s.nextID++
	customer.ID = m.s.nextID
	m.s.customers[customer.ID] = *customer
	return nil
}
