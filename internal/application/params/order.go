package params

import (
	"time"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// Order is the transient input of order creation and replacement.
type Order struct {
	StartDate   time.Time
	EndDate     time.Time
	Amount      decimal.Decimal
	Payment     *Payment
	ProductName string
	UserID      user.ID
}

type Payment struct {
	CardNumber *string
	UPIID      *string
	Type       entities.PaymentType
}

// ToEntity returns the payment details as stored on an order.
func (p *Payment) ToEntity() entities.Payment {
	return entities.Payment{
		Type:       p.Type,
		CardNumber: p.CardNumber,
		UPIID:      p.UPIID,
	}
}

// OrderFilter narrows order listing. Nil fields are not applied.
type OrderFilter struct {
	UserID *user.ID
	Status *entities.OrderStatus
}
