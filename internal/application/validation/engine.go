package validation

import (
	"context"
	"errors"

	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
)

// OrderValidator gates every order mutation.
type OrderValidator interface {
	ValidateOrder(context.Context, *params.Order) error
}

// OrderValidationEngine runs the credit limit check and then the payment
// check. It stops at the first failure, so user existence and credit limit
// errors always take priority over payment shape errors.
type OrderValidationEngine struct {
	creditLimit CreditLimitValidator
	payment     PaymentValidator
	logger      logger.Logger
}

func NewOrderValidationEngine(
	creditLimit CreditLimitValidator,
	payment PaymentValidator,
	logger logger.Logger,
) (*OrderValidationEngine, error) {
	if creditLimit == nil {
		return nil, errors.New("nil dependency: credit limit validator")
	}
	if payment == nil {
		return nil, errors.New("nil dependency: payment validator")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	return &OrderValidationEngine{
		creditLimit: creditLimit,
		payment:     payment,
		logger:      logger,
	}, nil
}

var _ OrderValidator = (*OrderValidationEngine)(nil)

func (e *OrderValidationEngine) ValidateOrder(ctx context.Context, p *params.Order) error {
	log := e.logger.With(ctx, "user_id", p.UserID)

	log.Debug("order validation started")

	if err := e.creditLimit.ValidateCreditLimit(ctx, p.UserID, p.Amount); err != nil {
		return err
	}

	if err := e.payment.Validate(p.Payment); err != nil {
		log.Warnf("payment validation failed: %s", err)
		return err
	}

	log.Debug("order validation passed")

	return nil
}
