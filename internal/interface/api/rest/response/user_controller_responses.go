package response

import (
	"time"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// User never carries the password hash.
type User struct {
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	AadhaarNumber *string         `json:"aadhaarNumber,omitempty"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Country       string          `json:"country"`
	Role          user.Role       `json:"role"`
	ID            user.ID         `json:"id"`
	Blocked       bool            `json:"blocked"`
}

func NewUserFromEntity(u *user.User) *User {
	return &User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		CreditLimit:   u.CreditLimit,
		Country:       u.Country,
		AadhaarNumber: u.AadhaarNumber,
		Blocked:       u.Blocked,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func NewUsersFromEntities(us []*user.User) []*User {
	res := make([]*User, len(us))
	for i, u := range us {
		res[i] = NewUserFromEntity(u)
	}
	return res
}
