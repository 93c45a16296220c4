package entities

import (
	"time"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderCreated OrderEventType = "order.created"
	OrderUpdated OrderEventType = "order.updated"
	OrderDeleted OrderEventType = "order.deleted"
)

// OrderEvent describes a committed change of an order.
type OrderEvent struct {
	OccurredAt time.Time       `json:"occurredAt"`
	Amount     decimal.Decimal `json:"amount"`
	Type       OrderEventType  `json:"type"`
	Status     OrderStatus     `json:"status"`
	OrderID    OrderID         `json:"orderId"`
	UserID     user.ID         `json:"userId"`
}

func NewOrderEvent(t OrderEventType, o *Order) OrderEvent {
	return OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		Amount:     o.Amount,
		OccurredAt: time.Now().UTC(),
	}
}
