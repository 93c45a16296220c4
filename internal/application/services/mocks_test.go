package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/config"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"golang.org/x/crypto/bcrypt"
)

// Lock in case of t.Parallel call.
type mockUserRepository struct {
	items []user.User
	mu    sync.RWMutex
}

func (m *mockUserRepository) GetUserByID(_ context.Context, id user.ID) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	if email == "panic@example.com" {
		return nil, errors.New("don't panic!")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.Email == email {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) GetUsers(context.Context) ([]*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*user.User, len(m.items))
	for i := range m.items {
		item := m.items[i]
		users[i] = &item
	}
	return users, nil
}

func (m *mockUserRepository) CreateUser(_ context.Context, u *user.User) (user.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxID user.ID
	for _, item := range m.items {
		if item.Email == u.Email {
			return 0, errs.ErrDataConflict
		}
		maxID = max(maxID, item.ID)
	}
	created := *u
	created.ID = maxID + 1
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.items = append(m.items, created)
	return created.ID, nil
}

func (m *mockUserRepository) UpdateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.ID == u.ID {
			m.items[i] = *u
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *mockUserRepository) DeleteUser(_ context.Context, id user.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *mockUserRepository) get(id user.ID) user.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return user.User{}
}

// Lock in case of t.Parallel call.
type mockOrderRepository struct {
	items  []entities.Order
	saves  int
	mu     sync.RWMutex
	nextID entities.OrderID
}

func (m *mockOrderRepository) GetOrderByID(_ context.Context, id entities.OrderID) (*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockOrderRepository) GetOrdersByUserID(_ context.Context, id user.ID) ([]*entities.Order, error) {
	return m.filter(func(o entities.Order) bool { return o.UserID == id }), nil
}

func (m *mockOrderRepository) GetOrdersByStatus(
	_ context.Context, status entities.OrderStatus,
) ([]*entities.Order, error) {
	return m.filter(func(o entities.Order) bool { return o.Status == status }), nil
}

func (m *mockOrderRepository) filter(keep func(entities.Order) bool) []*entities.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]*entities.Order, 0)
	for _, item := range m.items {
		if keep(item) {
			item := item
			orders = append(orders, &item)
		}
	}
	return orders
}

func (m *mockOrderRepository) SaveOrder(_ context.Context, o *entities.Order) (*entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	saved := *o
	saved.UpdatedAt = time.Now()
	if saved.ID == 0 {
		m.nextID++
		saved.ID = 1000 + m.nextID
		saved.CreatedAt = saved.UpdatedAt
		m.items = append(m.items, saved)
		return &saved, nil
	}
	for i, item := range m.items {
		if item.ID == saved.ID {
			m.items[i] = saved
			return &saved, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockOrderRepository) DeleteOrder(_ context.Context, o *entities.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.ID == o.ID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *mockOrderRepository) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *mockOrderRepository) get(id entities.OrderID) (entities.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return entities.Order{}, false
}

// mockTransactor runs fn in place.
type mockTransactor struct{}

func (mockTransactor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockPublisher struct {
	err    error
	events []entities.OrderEvent
	mu     sync.Mutex
}

func (m *mockPublisher) Publish(_ context.Context, e entities.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Events() []entities.OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.OrderEvent(nil), m.events...)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWT{
			SigningKey: "0123456789abcdef0123456789abcdef",
			Expiration: time.Hour,
		},
		PasswordHashCost: bcrypt.MinCost,
	}
}
