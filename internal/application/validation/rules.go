package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/shopspring/decimal"
)

// Rule checks one aspect of T and returns a field violation or nil.
type Rule[T any] func(T) *errs.Error

// Validate runs every rule against v and aggregates the violations.
// The first violation of a field wins.
func Validate[T any](v T, rules ...Rule[T]) error {
	var ve errs.ValidationErrors
	for _, rule := range rules {
		if e := rule(v); e != nil {
			ve.Add(e)
		}
	}
	return ve.OrNil()
}

// ErrAmountScale is returned for amounts with more fractional digits than stored.
var ErrAmountScale = errs.Validation("amount",
	fmt.Sprintf("Amount must have at most %d decimal places", entities.AmountScale))

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	aadhaarRe    = regexp.MustCompile(`^\d{12}$`)
)

// The helpers below build rules from a field accessor. Rules of optional
// values accept an absent value, pair them with Required when the field
// is mandatory.

func NotBlank[T any](field, message string, get func(T) string) Rule[T] {
	return func(v T) *errs.Error {
		if strings.TrimSpace(get(v)) == "" {
			return errs.Validation(field, message)
		}
		return nil
	}
}

func Required[T any, P any](field, message string, get func(T) *P) Rule[T] {
	return func(v T) *errs.Error {
		if get(v) == nil {
			return errs.Validation(field, message)
		}
		return nil
	}
}

func Size[T any](field string, minLen, maxLen int, get func(T) string) Rule[T] {
	return func(v T) *errs.Error {
		n := utf8.RuneCountInString(get(v))
		if n < minLen || n > maxLen {
			return errs.Validation(field, fmt.Sprintf("size must be between %d and %d", minLen, maxLen))
		}
		return nil
	}
}

func MinLength[T any](field string, minLen int, message string, get func(T) *string) Rule[T] {
	return func(v T) *errs.Error {
		s := get(v)
		if s != nil && utf8.RuneCountInString(*s) < minLen {
			return errs.Validation(field, message)
		}
		return nil
	}
}

// Email accepts an empty value or a single bare address.
func Email[T any](field, message string, get func(T) string) Rule[T] {
	return func(v T) *errs.Error {
		s := get(v)
		if s == "" {
			return nil
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return errs.Validation(field, message)
		}
		return nil
	}
}

// Positive fails for zero and negative amounts.
func Positive[T any](field, message string, get func(T) *decimal.Decimal) Rule[T] {
	return func(v T) *errs.Error {
		d := get(v)
		if d != nil && !d.IsPositive() {
			return errs.Validation(field, message)
		}
		return nil
	}
}

// Money fails for amounts that can not be stored without rounding.
func Money[T any](field, message string, get func(T) *decimal.Decimal) Rule[T] {
	return func(v T) *errs.Error {
		d := get(v)
		if d != nil && !entities.FitsAmountScale(*d) {
			return errs.Validation(field, message)
		}
		return nil
	}
}

// CardNumber accepts an absent value or exactly 16 digits.
func CardNumber[T any](field string, get func(T) *string) Rule[T] {
	return optionalPattern(field, cardNumberRe, "Card number must be 16 digits", get)
}

// Aadhaar accepts an absent value or exactly 12 digits.
func Aadhaar[T any](field string, get func(T) *string) Rule[T] {
	return optionalPattern(field, aadhaarRe, "Aadhaar must be 12 digits", get)
}

func optionalPattern[T any](field string, re *regexp.Regexp, msg string, get func(T) *string) Rule[T] {
	return func(v T) *errs.Error {
		s := get(v)
		if s == nil || *s == "" {
			return nil
		}
		if !re.MatchString(*s) {
			return errs.Validation(field, msg)
		}
		return nil
	}
}
