package response

import (
	"time"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of order dates.
const DateLayout = "2006-01-02"

type Order struct {
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Amount      decimal.Decimal      `json:"amount"`
	CardNumber  *string              `json:"cardNumber,omitempty"`
	UPIID       *string              `json:"upiId,omitempty"`
	ProductName string               `json:"productName"`
	StartDate   string               `json:"startDate"`
	EndDate     string               `json:"endDate"`
	Status      entities.OrderStatus `json:"status"`
	PaymentType entities.PaymentType `json:"paymentType,omitempty"`
	ID          entities.OrderID     `json:"id"`
	UserID      user.ID              `json:"userId"`
}

func NewOrderFromEntity(e *entities.Order) *Order {
	return &Order{
		ID:          e.ID,
		UserID:      e.UserID,
		ProductName: e.ProductName,
		Amount:      e.Amount,
		StartDate:   e.StartDate.Format(DateLayout),
		EndDate:     e.EndDate.Format(DateLayout),
		Status:      e.Status,
		PaymentType: e.Payment.Type,
		CardNumber:  e.Payment.CardNumber,
		UPIID:       e.Payment.UPIID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func NewOrdersFromEntities(es []*entities.Order) []*Order {
	res := make([]*Order, len(es))
	for i, e := range es {
		res[i] = NewOrderFromEntity(e)
	}
	return res
}
