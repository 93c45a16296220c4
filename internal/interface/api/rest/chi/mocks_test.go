package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	userToken  = "Bearer user"
	adminToken = "Bearer admin"

	regularUserID user.ID = 1
	otherUserID   user.ID = 2
	adminUserID   user.ID = 3
)

var testUsers = map[user.ID]*user.User{
	regularUserID: {ID: regularUserID, Name: "Jane", Email: "jane@example.com", Role: user.RoleUser},
	otherUserID:   {ID: otherUserID, Name: "John", Email: "john@example.com", Role: user.RoleUser},
	adminUserID:   {ID: adminUserID, Name: "Root", Email: "root@example.com", Role: user.RoleAdmin},
}

type mockAuthService struct {
	registered []*params.User
	mu         sync.Mutex
}

func (s *mockAuthService) Register(_ context.Context, p *params.User) (*entities.Token, error) {
	// Lock in case of t.Parallel call.
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Email == "jane@example.com" {
		return nil, errs.Conflict("Email already registered")
	}

	s.registered = append(s.registered, p)

	return &entities.Token{
		AccessToken: "token",
		Type:        entities.TokenTypeBearer,
		Email:       p.Email,
		ExpiresIn:   time.Hour,
	}, nil
}

func (s *mockAuthService) Login(_ context.Context, c params.Credentials) (*entities.Token, error) {
	if c.Email != "jane@example.com" || c.Password != "password123" {
		return nil, errs.Unauthorized("Invalid credentials")
	}
	return &entities.Token{
		AccessToken: "token",
		Type:        entities.TokenTypeBearer,
		Email:       c.Email,
		ExpiresIn:   time.Hour,
	}, nil
}

func (s *mockAuthService) Authenticate(_ context.Context, token string) (*user.User, error) {
	switch token {
	case userToken:
		return testUsers[regularUserID], nil
	case adminToken:
		return testUsers[adminUserID], nil
	}
	return nil, errs.Unauthorized("Invalid or expired token")
}

type mockOrderService struct {
	orders     map[entities.OrderID]*entities.Order
	lastFilter params.OrderFilter
	lastPatch  map[string]any
	mu         sync.Mutex
}

func newMockOrderService() *mockOrderService {
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &mockOrderService{
		orders: map[entities.OrderID]*entities.Order{
			10: {
				ID: 10, UserID: regularUserID, ProductName: "Laptop", Status: entities.CREATED,
				Amount: decimal.NewFromInt(500), StartDate: date, EndDate: date,
				Payment: entities.Payment{Type: entities.CASH},
			},
			20: {
				ID: 20, UserID: otherUserID, ProductName: "Phone", Status: entities.CREATED,
				Amount: decimal.NewFromInt(100), StartDate: date, EndDate: date,
				Payment: entities.Payment{Type: entities.CASH},
			},
		},
	}
}

func (s *mockOrderService) CreateOrder(_ context.Context, p *params.Order) (*entities.Order, error) {
	// Lock in case of t.Parallel call.
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &entities.Order{
		ID:          entities.OrderID(len(s.orders) + 100),
		UserID:      p.UserID,
		ProductName: p.ProductName,
		Amount:      p.Amount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      entities.CREATED,
		Payment:     p.Payment.ToEntity(),
	}
	s.orders[o.ID] = o

	return o, nil
}

func (s *mockOrderService) GetOrder(_ context.Context, id entities.OrderID) (*entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NotFound("Order not found")
	}
	return o, nil
}

func (s *mockOrderService) ListOrders(_ context.Context, f params.OrderFilter) ([]*entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFilter = f

	var res []*entities.Order
	for _, id := range []entities.OrderID{10, 20} {
		o, ok := s.orders[id]
		if !ok {
			continue
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		res = append(res, o)
	}

	return res, nil
}

func (s *mockOrderService) UpdateOrder(
	_ context.Context, id entities.OrderID, p *params.Order,
) (*entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.orders[id]
	o.Replace(p.ProductName, p.Amount, p.StartDate, p.EndDate)

	return o, nil
}

func (s *mockOrderService) PatchOrder(
	_ context.Context, id entities.OrderID, updates map[string]any,
) (*entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPatch = updates

	o := s.orders[id]
	if v, ok := updates["status"]; ok {
		status, err := entities.ParseOrderStatus(v)
		if err != nil {
			return nil, err
		}
		if err = o.Patch(&status, nil); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func (s *mockOrderService) DeleteOrder(_ context.Context, id entities.OrderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)

	return nil
}

type mockUserService struct {
	blocked []user.ID
	deleted []user.ID
	mu      sync.Mutex
}

func (s *mockUserService) CreateUser(_ context.Context, p *params.User) (*user.User, error) {
	return &user.User{
		ID: 42, Name: p.Name, Email: p.Email, Country: p.Country,
		CreditLimit: p.CreditLimit, Role: p.Role,
	}, nil
}

func (s *mockUserService) GetUser(_ context.Context, id user.ID) (*user.User, error) {
	u, ok := testUsers[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	return u, nil
}

func (s *mockUserService) ListUsers(context.Context) ([]*user.User, error) {
	return []*user.User{testUsers[regularUserID], testUsers[otherUserID], testUsers[adminUserID]}, nil
}

func (s *mockUserService) UpdateUser(_ context.Context, id user.ID, p *params.User) (*user.User, error) {
	u, ok := testUsers[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	return &user.User{ID: u.ID, Name: p.Name, Email: p.Email, Country: p.Country, Role: u.Role}, nil
}

func (s *mockUserService) BlockUser(_ context.Context, id user.ID) error {
	// Lock in case of t.Parallel call.
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocked = append(s.blocked, id)

	return nil
}

func (s *mockUserService) DeleteUser(_ context.Context, id user.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, id)

	return nil
}

type testServer struct {
	router *chi.Mux
	auth   *mockAuthService
	orders *mockOrderService
	users  *mockUserService
}

// newTestServer wires every controller the way the application does.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.NewForTest()

	s := &testServer{
		router: InitChi(log),
		auth:   &mockAuthService{},
		orders: newMockOrderService(),
		users:  &mockUserService{},
	}

	authenticated := []MiddlewareFunc{middleware.Middleware(s.auth)}

	NewAuthController(s.auth, log, ChiServerOptions{
		BaseRouter: s.router,
		BaseURL:    BaseURL + "/auth",
	})
	NewOrderController(s.orders, log, ChiServerOptions{
		BaseRouter:  s.router,
		BaseURL:     BaseURL,
		Middlewares: authenticated,
	})
	NewUserController(s.users, log, ChiServerOptions{
		BaseRouter:  s.router,
		BaseURL:     BaseURL,
		Middlewares: authenticated,
	})

	return s
}

func (s *testServer) do(method, path, token, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set(middleware.AuthorizationKey, token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)

	return w.Result()
}
