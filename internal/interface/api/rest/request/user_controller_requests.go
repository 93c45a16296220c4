package request

import (
	"fmt"
	"strings"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/application/validation"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/shopspring/decimal"
)

// MinPasswordLength and MaxPasswordLength bound the plain password.
// bcrypt ignores anything past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User defines the body of user creation and update.
type User struct {
	Password        *string          `json:"password"`
	ConfirmPassword *string          `json:"confirmPassword"`
	CreditLimit     *decimal.Decimal `json:"creditLimit"`
	AadhaarNumber   *string          `json:"aadhaarNumber"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Country         string           `json:"country"`
	Role            *user.Role       `json:"role"`
}

var passwordsMatch = validation.NewCrossField(
	"confirmPassword", "Passwords do not match",
	func(u *User) *string { return u.Password },
	func(u *User) *string { return u.ConfirmPassword },
)

var creditLimitScale = fmt.Sprintf("Credit limit must have at most %d decimal places", entities.AmountScale)

var profileRules = []validation.Rule[*User]{
	validation.NotBlank("name", "Name is required", func(u *User) string { return u.Name }),
	validation.Size("name", 2, 100, func(u *User) string { return u.Name }),
	validation.NotBlank("email", "Email is required", func(u *User) string { return u.Email }),
	validation.Email("email", "Invalid email format", func(u *User) string { return u.Email }),
	validation.Required("creditLimit", "Credit limit is required", func(u *User) *decimal.Decimal { return u.CreditLimit }),
	validation.Positive("creditLimit", "Credit limit must be positive", func(u *User) *decimal.Decimal { return u.CreditLimit }),
	validation.Money("creditLimit", creditLimitScale, func(u *User) *decimal.Decimal { return u.CreditLimit }),
	validation.NotBlank("country", "Country is required", func(u *User) string { return u.Country }),
	validation.Aadhaar("aadhaarNumber", func(u *User) *string { return u.AadhaarNumber }),
	passwordsMatch.Rule(),
	role,
}

var passwordRequired = validation.Required("password", "Password is required",
	func(u *User) *string { return u.Password })

var createUserRules = append([]validation.Rule[*User]{
	passwordRequired,
	password,
	validation.Required("confirmPassword", "Confirm password is required",
		func(u *User) *string { return u.ConfirmPassword }),
}, profileRules...)

// A missing password on update keeps the current one.
var updateUserRules = append([]validation.Rule[*User]{
	password,
}, profileRules...)

func (u *User) ValidateCreate() error {
	return validation.Validate(u, createUserRules...)
}

func (u *User) ValidateUpdate() error {
	return validation.Validate(u, updateUserRules...)
}

// ToParams converts a validated request.
func (u *User) ToParams() *params.User {
	p := &params.User{
		Name:          strings.TrimSpace(u.Name),
		Email:         u.Email,
		Country:       strings.TrimSpace(u.Country),
		AadhaarNumber: u.AadhaarNumber,
		CreditLimit:   *u.CreditLimit,
	}
	if u.Password != nil {
		p.Password = *u.Password
	}
	if u.Role != nil {
		p.Role = *u.Role
	}
	return p
}

// Register defines the body of self registration.
type Register struct {
	Password        *string          `json:"password"`
	ConfirmPassword *string          `json:"confirmPassword"`
	CreditLimit     *decimal.Decimal `json:"creditLimit"`
	AadhaarNumber   *string          `json:"aadhaarNumber"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Country         string           `json:"country"`
}

func (r *Register) Validate() error {
	u := r.asUser()
	return validation.Validate(u, append([]validation.Rule[*User]{
		passwordRequired,
		password,
	}, profileRules...)...)
}

func (r *Register) ToParams() *params.User {
	return r.asUser().ToParams()
}

func (r *Register) asUser() *User {
	return &User{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		CreditLimit:     r.CreditLimit,
		Country:         r.Country,
		AadhaarNumber:   r.AadhaarNumber,
	}
}

// Login defines the body of login.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginRules = []validation.Rule[*Login]{
	validation.NotBlank("email", "Email is required", func(l *Login) string { return l.Email }),
	validation.Email("email", "Invalid email format", func(l *Login) string { return l.Email }),
	validation.NotBlank("password", "Password is required", func(l *Login) string { return l.Password }),
}

func (l *Login) Validate() error {
	return validation.Validate(l, loginRules...)
}

func (l *Login) ToParams() params.Credentials {
	return params.Credentials{Email: l.Email, Password: l.Password}
}

func password(u *User) *errs.Error {
	if u.Password == nil {
		return nil
	}
	switch n := len(*u.Password); {
	case n < MinPasswordLength:
		return errs.Validation("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	case n > MaxPasswordLength:
		return errs.Validation("password", fmt.Sprintf("Password must not exceed %d characters", MaxPasswordLength))
	}
	return nil
}

func role(u *User) *errs.Error {
	if u.Role == nil {
		return nil
	}
	switch *u.Role {
	case user.RoleUser, user.RoleAdmin:
		return nil
	}
	return errs.Validation("role", "must be one of USER, ADMIN")
}
