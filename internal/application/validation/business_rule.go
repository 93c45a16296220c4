package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound        = errs.NotFound("User not found")
	ErrCreditLimitExceeded = errs.BusinessRule("Credit limit exceeded")
)

// UserFinder is the user lookup the business rules depend on.
type UserFinder interface {
	GetUserByID(context.Context, user.ID) (*user.User, error)
}

// CreditLimitValidator checks a proposed order amount against the user's limit.
type CreditLimitValidator interface {
	ValidateCreditLimit(ctx context.Context, userID user.ID, amount decimal.Decimal) error
}

// BusinessRuleValidator validates financial rules. It is read-only.
type BusinessRuleValidator struct {
	users UserFinder
}

func NewBusinessRuleValidator(users UserFinder) (*BusinessRuleValidator, error) {
	if users == nil {
		return nil, errors.New("nil dependency: user finder")
	}
	return &BusinessRuleValidator{users: users}, nil
}

var _ CreditLimitValidator = (*BusinessRuleValidator)(nil)

// ValidateCreditLimit fails with a not found error for unknown users
// and with a business rule error when amount exceeds the credit limit.
func (v *BusinessRuleValidator) ValidateCreditLimit(
	ctx context.Context, userID user.ID, amount decimal.Decimal,
) error {
	u, err := v.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user %d: %w", userID, err)
	}

	if amount.GreaterThan(u.CreditLimit) {
		return ErrCreditLimitExceeded
	}

	return nil
}
