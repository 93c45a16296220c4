package validation

import (
	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
)

// ErrCardNumberRequired is returned for credit card payments without a card.
var ErrCardNumberRequired = errs.Validation("payment.cardNumber", "Card number required")

// PaymentValidator checks payment method specific field requirements.
type PaymentValidator interface {
	Validate(*params.Payment) error
}

// PaymentConditionalValidator only checks relationships between payment
// fields. Presence of the payment itself is checked at the API boundary,
// so a nil payment is valid here.
type PaymentConditionalValidator struct{}

func NewPaymentConditionalValidator() *PaymentConditionalValidator {
	return &PaymentConditionalValidator{}
}

var _ PaymentValidator = (*PaymentConditionalValidator)(nil)

func (v *PaymentConditionalValidator) Validate(p *params.Payment) error {
	if p == nil {
		return nil
	}
	if p.Type == entities.CREDIT_CARD && (p.CardNumber == nil || *p.CardNumber == "") {
		return ErrCardNumberRequired
	}
	return nil
}
