package interfaces

import (
	"context"

	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
)

// OrderService represents all order actions.
type OrderService interface {
	CreateOrder(context.Context, *params.Order) (*entities.Order, error)
	GetOrder(context.Context, entities.OrderID) (*entities.Order, error)
	ListOrders(context.Context, params.OrderFilter) ([]*entities.Order, error)
	UpdateOrder(context.Context, entities.OrderID, *params.Order) (*entities.Order, error)
	PatchOrder(context.Context, entities.OrderID, map[string]any) (*entities.Order, error)
	DeleteOrder(context.Context, entities.OrderID) error
}

// OrderEventPublisher delivers order lifecycle events to subscribers.
type OrderEventPublisher interface {
	Publish(context.Context, entities.OrderEvent) error
}
