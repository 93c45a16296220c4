package params

import (
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// User carries the fields of user creation and update.
// An empty Password on update keeps the current one.
type User struct {
	AadhaarNumber *string
	CreditLimit   decimal.Decimal
	Name          string
	Email         string
	Password      string
	Country       string
	Role          user.Role
}

// Credentials used to log in.
type Credentials struct {
	Email    string
	Password string
}
