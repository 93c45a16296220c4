package validation

import (
	"context"
	"errors"
	"sync"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// Lock in case of t.Parallel call.
type mockUserFinder struct {
	items []user.User
	mu    sync.RWMutex
}

func (m *mockUserFinder) GetUserByID(_ context.Context, id user.ID) (*user.User, error) {
	if id == panicUserID {
		return nil, errors.New("don't panic!")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

const panicUserID user.ID = -1

// spyPayment records whether it has been called.
type spyPayment struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (s *spyPayment) Validate(*params.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *spyPayment) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubCreditLimit struct {
	err error
}

func (s stubCreditLimit) ValidateCreditLimit(context.Context, user.ID, decimal.Decimal) error {
	return s.err
}
