package user

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ID int64

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IndiaCountry is the country whose residents must provide an Aadhaar number.
const IndiaCountry = "INDIA"

// User description. Fields aligned for the GC optimal scanning.
type User struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreditLimit   decimal.Decimal
	Name          string
	Email         string
	Password      string
	Country       string
	AadhaarNumber *string
	Role          Role
	ID            ID
	Blocked       bool
}

// IsAdmin reports whether the user may manage other users.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RequiresAadhaar reports whether the given country obliges
// a user to have an Aadhaar number.
func RequiresAadhaar(country string) bool {
	return strings.EqualFold(country, IndiaCountry)
}

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// userKey is the key for user.User values in Contexts. It is
// unexported; clients use user.NewContext and user.FromContext
// instead of using this key directly.
var userKey key

// NewContext returns a new Context that carries value u.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext returns the User value stored in ctx, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}
