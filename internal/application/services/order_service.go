package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/application/validation"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/repositories"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errs.NotFound("Order not found")
	ErrUserNotFound  = errs.NotFound("User not found")
	ErrBlockedUser   = errs.Forbidden("Blocked users cannot place orders")
	ErrOwnerChange   = errs.Validation("userId", "Order owner cannot be changed")
)

// Patchable order fields.
const (
	patchStatusKey = "status"
	patchAmountKey = "amount"
)

type OrderService struct {
	orders    repositories.OrderRepository
	users     repositories.UserRepository
	validator validation.OrderValidator
	events    interfaces.OrderEventPublisher
	trm       Transactor
	logger    logger.Logger
}

func NewOrderService(
	orders repositories.OrderRepository,
	users repositories.UserRepository,
	validator validation.OrderValidator,
	events interfaces.OrderEventPublisher,
	trm Transactor,
	logger logger.Logger,
) (*OrderService, error) {
	if orders == nil {
		return nil, errors.New("nil dependency: order repository")
	}
	if users == nil {
		return nil, errors.New("nil dependency: user repository")
	}
	if validator == nil {
		return nil, errors.New("nil dependency: order validator")
	}
	if events == nil {
		return nil, errors.New("nil dependency: event publisher")
	}
	if trm == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}
	return &OrderService{
		orders:    orders,
		users:     users,
		validator: validator,
		events:    events,
		trm:       trm,
		logger:    logger,
	}, nil
}

var _ interfaces.OrderService = (*OrderService)(nil)

// CreateOrder validates the request and stores a new order in the CREATED state.
func (s *OrderService) CreateOrder(ctx context.Context, p *params.Order) (*entities.Order, error) {
	var created *entities.Order

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.validator.ValidateOrder(ctx, p); err != nil {
			return err
		}

		u, err := s.users.GetUserByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user %d: %w", p.UserID, err)
		}

		if u.Blocked {
			return ErrBlockedUser
		}

		var payment entities.Payment
		if p.Payment != nil {
			payment = p.Payment.ToEntity()
		}

		order := entities.NewOrder(u, p.ProductName, p.Amount, p.StartDate, p.EndDate, payment)

		created, err = s.orders.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.OrderCreated, created)

	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	return s.getOrder(ctx, id)
}

// ListOrders returns the orders of a user, optionally of a single status.
// Without a user the status filter applies across all users.
func (s *OrderService) ListOrders(ctx context.Context, f params.OrderFilter) ([]*entities.Order, error) {
	switch {
	case f.UserID != nil:
		orders, err := s.orders.GetOrdersByUserID(ctx, *f.UserID)
		if err != nil {
			return nil, fmt.Errorf("get orders of user %d: %w", *f.UserID, err)
		}
		if f.Status == nil {
			return orders, nil
		}
		filtered := make([]*entities.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == *f.Status {
				filtered = append(filtered, o)
			}
		}
		return filtered, nil

	case f.Status != nil:
		orders, err := s.orders.GetOrdersByStatus(ctx, *f.Status)
		if err != nil {
			return nil, fmt.Errorf("get orders by status %s: %w", *f.Status, err)
		}
		return orders, nil

	default:
		return nil, errs.Validation("userId", "user or status filter required")
	}
}

// UpdateOrder replaces the descriptive fields of an order that has not been shipped.
func (s *OrderService) UpdateOrder(
	ctx context.Context, id entities.OrderID, p *params.Order,
) (*entities.Order, error) {
	var updated *entities.Order

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, id)
		if err != nil {
			return err
		}

		if err = order.CheckUpdatable(); err != nil {
			return err
		}

		// The credit limit is checked against the owner.
		if p.UserID != order.UserID {
			return ErrOwnerChange
		}

		if err = s.validator.ValidateOrder(ctx, p); err != nil {
			return err
		}

		order.Replace(p.ProductName, p.Amount, p.StartDate, p.EndDate)

		updated, err = s.orders.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("save order %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.OrderUpdated, updated)

	return updated, nil
}

// PatchOrder applies the status and amount keys of fields. Other keys are ignored.
// The amount is not checked against the credit limit.
func (s *OrderService) PatchOrder(
	ctx context.Context, id entities.OrderID, fields map[string]any,
) (*entities.Order, error) {
	var patched *entities.Order

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, id)
		if err != nil {
			return err
		}

		var status *entities.OrderStatus
		if v, ok := fields[patchStatusKey]; ok {
			st, err := entities.ParseOrderStatus(v)
			if err != nil {
				return err
			}
			status = &st
		}

		var amount *decimal.Decimal
		if v, ok := fields[patchAmountKey]; ok {
			a, err := parseAmount(v)
			if err != nil {
				return err
			}
			amount = &a
		}

		if err = order.Patch(status, amount); err != nil {
			return err
		}

		patched, err = s.orders.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("save order %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.OrderUpdated, patched)

	return patched, nil
}

// DeleteOrder removes an order that has not been shipped.
func (s *OrderService) DeleteOrder(ctx context.Context, id entities.OrderID) error {
	var deleted *entities.Order

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		order, err := s.getOrder(ctx, id)
		if err != nil {
			return err
		}

		if err = order.CheckDeletable(); err != nil {
			return err
		}

		if err = s.orders.DeleteOrder(ctx, order); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("delete order %d: %w", id, err)
		}

		deleted = order
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, entities.OrderDeleted, deleted)

	return nil
}

func (s *OrderService) getOrder(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}

// publish runs after commit. Delivery failures never fail the request.
func (s *OrderService) publish(ctx context.Context, t entities.OrderEventType, o *entities.Order) {
	if err := s.events.Publish(ctx, entities.NewOrderEvent(t, o)); err != nil {
		s.logger.With(ctx, "order_id", o.ID).Errorf("publish %s: %s", t, err)
	}
}

// parseAmount accepts the loosely typed amount of a patch request.
// Amounts that would be rounded on storage are rejected.
func parseAmount(v any) (decimal.Decimal, error) {
	d, err := decodeAmount(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !entities.FitsAmountScale(d) {
		return decimal.Decimal{}, validation.ErrAmountScale
	}
	return d, nil
}

func decodeAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case float64:
		return decimal.NewFromFloat(a), nil
	case int:
		return decimal.NewFromInt(int64(a)), nil
	case int64:
		return decimal.NewFromInt(a), nil
	case json.Number:
		return parseAmountString(a.String())
	case string:
		return parseAmountString(a)
	case decimal.Decimal:
		return a, nil
	default:
		return decimal.Decimal{}, errs.Validation(patchAmountKey, fmt.Sprintf("must be a number, got %T", v))
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errs.Validation(patchAmountKey, fmt.Sprintf("invalid number %q", s))
	}
	return d, nil
}
