package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/application/validation"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	activeUserID  user.ID = 1
	poorUserID    user.ID = 2
	blockedUserID user.ID = 3

	createdOrderID   entities.OrderID = 10
	shippedOrderID   entities.OrderID = 11
	cancelledOrderID entities.OrderID = 12
)

type orderFixture struct {
	svc       *OrderService
	users     *mockUserRepository
	orders    *mockOrderRepository
	publisher *mockPublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	users := &mockUserRepository{items: []user.User{
		{ID: activeUserID, CreditLimit: decimal.NewFromInt(1000)},
		{ID: poorUserID, CreditLimit: decimal.NewFromInt(500)},
		{ID: blockedUserID, CreditLimit: decimal.NewFromInt(1000), Blocked: true},
	}}

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := &mockOrderRepository{items: []entities.Order{
		{ID: createdOrderID, UserID: activeUserID, Status: entities.CREATED, Amount: decimal.NewFromInt(100),
			ProductName: "Keyboard", StartDate: day, EndDate: day, Payment: entities.Payment{Type: entities.CASH}},
		{ID: shippedOrderID, UserID: activeUserID, Status: entities.SHIPPED, Amount: decimal.NewFromInt(200),
			ProductName: "Monitor", StartDate: day, EndDate: day, Payment: entities.Payment{Type: entities.CASH}},
		{ID: cancelledOrderID, UserID: poorUserID, Status: entities.CANCELLED, Amount: decimal.NewFromInt(50),
			ProductName: "Mouse", StartDate: day, EndDate: day, Payment: entities.Payment{Type: entities.UPI}},
	}}

	log, _ := logger.NewForTest()

	creditLimit, err := validation.NewBusinessRuleValidator(users)
	require.NoError(t, err)
	engine, err := validation.NewOrderValidationEngine(creditLimit, validation.NewPaymentConditionalValidator(), log)
	require.NoError(t, err)

	publisher := &mockPublisher{}

	svc, err := NewOrderService(orders, users, engine, publisher, mockTransactor{}, log)
	require.NoError(t, err)

	return &orderFixture{svc: svc, users: users, orders: orders, publisher: publisher}
}

func cardPayment(card *string) *params.Payment {
	return &params.Payment{Type: entities.CREDIT_CARD, CardNumber: card}
}

func orderParams(userID user.ID, amount int64, payment *params.Payment) *params.Order {
	return &params.Order{
		UserID:      userID,
		ProductName: "Laptop",
		Amount:      decimal.NewFromInt(amount),
		StartDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Payment:     payment,
	}
}

func strPtr(s string) *string { return &s }

func TestNewOrderService(t *testing.T) {
	log, _ := logger.NewForTest()
	_, err := NewOrderService(nil, &mockUserRepository{}, nil, nil, nil, log)
	assert.EqualError(t, err, "nil dependency: order repository")

	_, err = NewOrderService(&mockOrderRepository{}, &mockUserRepository{}, nil, nil, nil, log)
	assert.EqualError(t, err, "nil dependency: order validator")
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name      string
		params    *params.Order
		wantKind  errs.Kind
		wantErr   error
		wantSaved bool
	}{
		{
			name:      "credit card order within limit",
			params:    orderParams(activeUserID, 500, cardPayment(strPtr("1234567890123456"))),
			wantSaved: true,
		},
		{
			name:     "credit limit exceeded",
			params:   orderParams(poorUserID, 600, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindBusinessRule,
			wantErr:  validation.ErrCreditLimitExceeded,
		},
		{
			name:     "blocked user",
			params:   orderParams(blockedUserID, 100, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindForbidden,
			wantErr:  ErrBlockedUser,
		},
		{
			name:     "credit card without number",
			params:   orderParams(activeUserID, 100, cardPayment(nil)),
			wantKind: errs.KindValidation,
			wantErr:  validation.ErrCardNumberRequired,
		},
		{
			name:     "unknown user wins over missing card",
			params:   orderParams(404, 100, cardPayment(nil)),
			wantKind: errs.KindNotFound,
			wantErr:  ErrUserNotFound,
		},
		{
			name:     "blocked user over limit reports limit first",
			params:   orderParams(blockedUserID, 5000, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindBusinessRule,
			wantErr:  validation.ErrCreditLimitExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newOrderFixture(t)

			order, err := f.svc.CreateOrder(context.Background(), tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
				assert.Zero(t, f.orders.Saves())
				assert.Empty(t, f.publisher.Events())
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, order.ID)
			assert.Equal(t, entities.CREATED, order.Status)
			assert.Equal(t, tt.params.UserID, order.UserID)
			assert.Equal(t, entities.CREDIT_CARD, order.Payment.Type)
			assert.Equal(t, "1234567890123456", *order.Payment.CardNumber)
			assert.True(t, order.Amount.Equal(tt.params.Amount))

			events := f.publisher.Events()
			require.Len(t, events, 1)
			assert.Equal(t, entities.OrderCreated, events[0].Type)
			assert.Equal(t, order.ID, events[0].OrderID)
		})
	}
}

func TestCreateOrderPublishFailureIsIgnored(t *testing.T) {
	f := newOrderFixture(t)
	f.publisher.err = errors.New("broker down")

	order, err := f.svc.CreateOrder(context.Background(),
		orderParams(activeUserID, 10, &params.Payment{Type: entities.CASH}))
	require.NoError(t, err)
	assert.Equal(t, entities.CREATED, order.Status)
}

func TestGetOrder(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.GetOrder(context.Background(), createdOrderID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", order.ProductName)

	_, err = f.svc.GetOrder(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	uid := activeUserID
	orders, err := f.svc.ListOrders(ctx, params.OrderFilter{UserID: &uid})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	shipped := entities.SHIPPED
	orders, err = f.svc.ListOrders(ctx, params.OrderFilter{UserID: &uid, Status: &shipped})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, shippedOrderID, orders[0].ID)

	cancelled := entities.CANCELLED
	orders, err = f.svc.ListOrders(ctx, params.OrderFilter{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, cancelledOrderID, orders[0].ID)

	_, err = f.svc.ListOrders(ctx, params.OrderFilter{})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestUpdateOrder(t *testing.T) {
	tests := []struct {
		name     string
		id       entities.OrderID
		params   *params.Order
		wantKind errs.Kind
		wantErr  error
	}{
		{
			name:   "replace created order",
			id:     createdOrderID,
			params: orderParams(activeUserID, 900, &params.Payment{Type: entities.UPI}),
		},
		{
			name:   "replace cancelled order",
			id:     cancelledOrderID,
			params: orderParams(poorUserID, 100, &params.Payment{Type: entities.CASH}),
		},
		{
			name:     "shipped order",
			id:       shippedOrderID,
			params:   orderParams(activeUserID, 100, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindConflict,
			wantErr:  entities.ErrUpdateShipped,
		},
		{
			name:     "shipped order with invalid request still conflicts",
			id:       shippedOrderID,
			params:   orderParams(404, 100, cardPayment(nil)),
			wantKind: errs.KindConflict,
			wantErr:  entities.ErrUpdateShipped,
		},
		{
			name:     "missing order",
			id:       9999,
			params:   orderParams(activeUserID, 100, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindNotFound,
			wantErr:  ErrOrderNotFound,
		},
		{
			name:     "another owner",
			id:       cancelledOrderID,
			params:   orderParams(activeUserID, 900, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindValidation,
			wantErr:  ErrOwnerChange,
		},
		{
			name:     "credit limit exceeded",
			id:       createdOrderID,
			params:   orderParams(activeUserID, 1001, &params.Payment{Type: entities.CASH}),
			wantKind: errs.KindBusinessRule,
			wantErr:  validation.ErrCreditLimitExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newOrderFixture(t)
			before, _ := f.orders.get(tt.id)

			order, err := f.svc.UpdateOrder(context.Background(), tt.id, tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
				after, _ := f.orders.get(tt.id)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.ProductName, order.ProductName)
			assert.True(t, order.Amount.Equal(tt.params.Amount))
			assert.Equal(t, tt.params.StartDate, order.StartDate)
			assert.Equal(t, tt.params.EndDate, order.EndDate)
			// status and payment are untouched
			assert.Equal(t, before.Status, order.Status)
			assert.Equal(t, before.Payment, order.Payment)
		})
	}
}

func TestPatchOrder(t *testing.T) {
	tests := []struct {
		name       string
		id         entities.OrderID
		fields     map[string]any
		wantKind   errs.Kind
		wantErr    error
		wantStatus entities.OrderStatus
		wantAmount string
	}{
		{
			name:       "ship created order",
			id:         createdOrderID,
			fields:     map[string]any{"status": "SHIPPED"},
			wantStatus: entities.SHIPPED,
			wantAmount: "100",
		},
		{
			name:     "cancel shipped order",
			id:       shippedOrderID,
			fields:   map[string]any{"status": "CANCELLED"},
			wantKind: errs.KindBusinessRule,
			wantErr:  entities.ErrCancelAfterShipment,
		},
		{
			name:     "cancel shipped order with amount changes nothing",
			id:       shippedOrderID,
			fields:   map[string]any{"status": "CANCELLED", "amount": 1.5},
			wantKind: errs.KindBusinessRule,
			wantErr:  entities.ErrCancelAfterShipment,
		},
		{
			name:       "reopen cancelled order",
			id:         cancelledOrderID,
			fields:     map[string]any{"status": "CREATED"},
			wantStatus: entities.CREATED,
			wantAmount: "50",
		},
		{
			name:       "shipped back to created",
			id:         shippedOrderID,
			fields:     map[string]any{"status": "CREATED"},
			wantStatus: entities.CREATED,
			wantAmount: "200",
		},
		{
			name:       "amount above credit limit is not checked",
			id:         createdOrderID,
			fields:     map[string]any{"amount": 5000.25},
			wantStatus: entities.CREATED,
			wantAmount: "5000.25",
		},
		{
			name:       "amount as string",
			id:         createdOrderID,
			fields:     map[string]any{"amount": "42.10"},
			wantStatus: entities.CREATED,
			wantAmount: "42.1",
		},
		{
			name:       "amount as json number",
			id:         createdOrderID,
			fields:     map[string]any{"amount": json.Number("7")},
			wantStatus: entities.CREATED,
			wantAmount: "7",
		},
		{
			name:       "status and amount together",
			id:         createdOrderID,
			fields:     map[string]any{"status": "CANCELLED", "amount": 1.0},
			wantStatus: entities.CANCELLED,
			wantAmount: "1",
		},
		{
			name:       "unknown keys ignored",
			id:         createdOrderID,
			fields:     map[string]any{"productName": "Other"},
			wantStatus: entities.CREATED,
			wantAmount: "100",
		},
		{
			name:     "unknown status",
			id:       createdOrderID,
			fields:   map[string]any{"status": "LOST"},
			wantKind: errs.KindValidation,
		},
		{
			name:     "malformed amount",
			id:       createdOrderID,
			fields:   map[string]any{"amount": "abc"},
			wantKind: errs.KindValidation,
		},
		{
			name:     "amount below storage scale",
			id:       createdOrderID,
			fields:   map[string]any{"amount": 0.001},
			wantKind: errs.KindValidation,
			wantErr:  validation.ErrAmountScale,
		},
		{
			name:     "json number amount below storage scale",
			id:       createdOrderID,
			fields:   map[string]any{"status": "SHIPPED", "amount": json.Number("12.345")},
			wantKind: errs.KindValidation,
			wantErr:  validation.ErrAmountScale,
		},
		{
			name:       "trailing zeros fit storage scale",
			id:         createdOrderID,
			fields:     map[string]any{"amount": "12.300"},
			wantStatus: entities.CREATED,
			wantAmount: "12.3",
		},
		{
			name:     "missing order",
			id:       9999,
			fields:   map[string]any{"status": "SHIPPED"},
			wantKind: errs.KindNotFound,
			wantErr:  ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newOrderFixture(t)
			before, _ := f.orders.get(tt.id)

			order, err := f.svc.PatchOrder(context.Background(), tt.id, tt.fields)
			if tt.wantKind != errs.KindInternal {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
				after, _ := f.orders.get(tt.id)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, order.Status)
			assert.Equal(t, tt.wantAmount, order.Amount.String())
			assert.Equal(t, before.ProductName, order.ProductName)

			stored, ok := f.orders.get(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	tests := []struct {
		name     string
		id       entities.OrderID
		wantKind errs.Kind
		wantErr  error
	}{
		{name: "created order", id: createdOrderID},
		{name: "cancelled order", id: cancelledOrderID},
		{
			name:     "shipped order",
			id:       shippedOrderID,
			wantKind: errs.KindConflict,
			wantErr:  entities.ErrDeleteShipped,
		},
		{
			name:     "missing order",
			id:       9999,
			wantKind: errs.KindNotFound,
			wantErr:  ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newOrderFixture(t)

			err := f.svc.DeleteOrder(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
				return
			}

			require.NoError(t, err)
			_, ok := f.orders.get(tt.id)
			assert.False(t, ok)

			events := f.publisher.Events()
			require.Len(t, events, 1)
			assert.Equal(t, entities.OrderDeleted, events[0].Type)
		})
	}
}
