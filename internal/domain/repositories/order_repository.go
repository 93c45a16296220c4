package repositories

import (
	"context"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
)

// OrderRepository is the order storage collaborator. Reads made inside a
// transaction lock the order row until the transaction ends, so a
// read-check-write sequence observes a consistent snapshot.
type OrderRepository interface {
	// GetOrderByID returns the order with its owning user loaded.
	GetOrderByID(context.Context, entities.OrderID) (*entities.Order, error)
	GetOrdersByUserID(context.Context, user.ID) ([]*entities.Order, error)
	GetOrdersByStatus(context.Context, entities.OrderStatus) ([]*entities.Order, error)
	SaveOrder(context.Context, *entities.Order) (*entities.Order, error)
	DeleteOrder(context.Context, *entities.Order) error
}
