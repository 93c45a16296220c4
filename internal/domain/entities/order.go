package entities

import (
	"fmt"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

type OrderID int64

type OrderStatus string

const (
	CREATED   OrderStatus = "CREATED"
	SHIPPED   OrderStatus = "SHIPPED"
	CANCELLED OrderStatus = "CANCELLED"
)

// AmountScale is the number of fractional digits amounts are stored with.
const AmountScale = 2

// FitsAmountScale reports whether d is stored without rounding.
func FitsAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}

type PaymentType string

const (
	CREDIT_CARD PaymentType = "CREDIT_CARD"
	UPI         PaymentType = "UPI"
	CASH        PaymentType = "CASH"
)

// Order state guard errors.
var (
	ErrUpdateShipped       = errs.Conflict("Cannot update shipped order")
	ErrDeleteShipped       = errs.Conflict("Cannot delete shipped order")
	ErrCancelAfterShipment = errs.BusinessRule("Cannot cancel after shipment")
)

// ParseOrderStatus converts a loosely typed value into a known status.
func ParseOrderStatus(v any) (OrderStatus, error) {
	s, ok := v.(string)
	if !ok {
		return "", errs.Validation("status", fmt.Sprintf("must be a string, got %T", v))
	}
	switch status := OrderStatus(s); status {
	case CREATED, SHIPPED, CANCELLED:
		return status, nil
	}
	return "", errs.Validation("status", fmt.Sprintf("unknown order status %q", s))
}

// CanTransitionTo checks the move from s to next. The only forbidden
// transition is cancelling an order that has already been shipped.
func (s OrderStatus) CanTransitionTo(next OrderStatus) error {
	if s == SHIPPED && next == CANCELLED {
		return ErrCancelAfterShipment
	}
	return nil
}

// ParsePaymentType converts raw input into a known payment type.
func ParsePaymentType(s string) (PaymentType, error) {
	switch t := PaymentType(s); t {
	case CREDIT_CARD, UPI, CASH:
		return t, nil
	}
	return "", errs.Validation("payment.paymentType", fmt.Sprintf("unknown payment type %q", s))
}

type Payment struct {
	Type       PaymentType
	CardNumber *string
	UPIID      *string
}

type Order struct {
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Amount      decimal.Decimal
	User        *user.User
	Payment     Payment
	ProductName string
	Status      OrderStatus
	ID          OrderID
	UserID      user.ID
}

// NewOrder creates an order owned by u in the CREATED state.
func NewOrder(
	u *user.User, productName string, amount decimal.Decimal,
	startDate, endDate time.Time, payment Payment,
) *Order {
	return &Order{
		UserID:      u.ID,
		User:        u,
		ProductName: productName,
		Amount:      amount,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      CREATED,
		Payment:     payment,
	}
}

// CheckUpdatable fails for orders that can no longer be replaced.
func (o *Order) CheckUpdatable() error {
	if o.Status == SHIPPED {
		return ErrUpdateShipped
	}
	return nil
}

// CheckDeletable fails for orders that can no longer be deleted.
func (o *Order) CheckDeletable() error {
	if o.Status == SHIPPED {
		return ErrDeleteShipped
	}
	return nil
}

// Replace overwrites the descriptive fields of the order.
// Status and payment are left untouched.
func (o *Order) Replace(productName string, amount decimal.Decimal, startDate, endDate time.Time) {
	o.ProductName = productName
	o.Amount = amount
	o.StartDate = startDate
	o.EndDate = endDate
}

// Patch applies a status change and/or a new amount together.
// Nothing is changed if the status transition is illegal.
func (o *Order) Patch(status *OrderStatus, amount *decimal.Decimal) error {
	if status != nil {
		if err := o.Status.CanTransitionTo(*status); err != nil {
			return err
		}
	}

	if status != nil {
		o.Status = *status
	}
	if amount != nil {
		o.Amount = *amount
	}

	return nil
}
