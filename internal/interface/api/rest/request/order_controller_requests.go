package request

import (
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/application/validation"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of order dates.
const DateLayout = "2006-01-02"

// Order defines the body of order creation and replacement.
type Order struct {
	UserID      *user.ID         `json:"userId"`
	Amount      *decimal.Decimal `json:"amount"`
	StartDate   *string          `json:"startDate"`
	EndDate     *string          `json:"endDate"`
	Payment     *Payment         `json:"payment"`
	ProductName string           `json:"productName"`
}

type Payment struct {
	PaymentType *string `json:"paymentType"`
	CardNumber  *string `json:"cardNumber"`
	UPIID       *string `json:"upiId"`
}

var orderRules = []validation.Rule[*Order]{
	validation.Required("userId", "User ID is required", func(o *Order) *user.ID { return o.UserID }),
	validation.NotBlank("productName", "Product name is required", func(o *Order) string { return o.ProductName }),
	validation.Required("amount", "Amount is required", func(o *Order) *decimal.Decimal { return o.Amount }),
	validation.Positive("amount", "Amount must be positive", func(o *Order) *decimal.Decimal { return o.Amount }),
	validation.Money("amount", validation.ErrAmountScale.Message, func(o *Order) *decimal.Decimal { return o.Amount }),
	date("startDate", "Start date required", func(o *Order) *string { return o.StartDate }),
	date("endDate", "End date required", func(o *Order) *string { return o.EndDate }),
	validation.Required("payment", "Payment details required", func(o *Order) *Payment { return o.Payment }),
	paymentType,
	validation.CardNumber("payment.cardNumber", func(o *Order) *string {
		if o.Payment == nil {
			return nil
		}
		return o.Payment.CardNumber
	}),
}

// Validate checks the shape of the request. Payment method conditions
// and business rules are checked by the order service.
func (o *Order) Validate() error {
	return validation.Validate(o, orderRules...)
}

// ToParams converts a validated request.
func (o *Order) ToParams() *params.Order {
	p := &params.Order{
		UserID:      *o.UserID,
		ProductName: o.ProductName,
		Amount:      *o.Amount,
		StartDate:   mustParseDate(*o.StartDate),
		EndDate:     mustParseDate(*o.EndDate),
	}

	if o.Payment != nil {
		p.Payment = &params.Payment{
			Type:       entities.PaymentType(*o.Payment.PaymentType),
			CardNumber: o.Payment.CardNumber,
			UPIID:      o.Payment.UPIID,
		}
	}

	return p
}

func paymentType(o *Order) *errs.Error {
	if o.Payment == nil {
		return nil
	}
	if o.Payment.PaymentType == nil {
		return errs.Validation("payment.paymentType", "Payment type is required")
	}
	if _, err := entities.ParsePaymentType(*o.Payment.PaymentType); err != nil {
		return errs.Validation("payment.paymentType", "must be one of CREDIT_CARD, UPI, CASH")
	}
	return nil
}

func date(field, required string, get func(*Order) *string) validation.Rule[*Order] {
	return func(o *Order) *errs.Error {
		s := get(o)
		if s == nil {
			return errs.Validation(field, required)
		}
		if _, err := time.Parse(DateLayout, *s); err != nil {
			return errs.Validation(field, "must be a date in YYYY-MM-DD format")
		}
		return nil
	}
}

func mustParseDate(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}
