package validation

import "github.com/KretovDmitry/order-management-service/internal/application/errs"

// CrossField checks that two fields of T hold equal values.
// If either value is absent the check passes, presence is left
// to the required field rules. A violation is reported on the
// secondary field.
type CrossField[T any, V comparable] struct {
	primary   func(T) *V
	secondary func(T) *V
	field     string
	message   string
}

// NewCrossField returns a rule comparing primary and secondary of T.
// field names the secondary field in reported violations.
func NewCrossField[T any, V comparable](
	field, message string,
	primary, secondary func(T) *V,
) *CrossField[T, V] {
	return &CrossField[T, V]{
		primary:   primary,
		secondary: secondary,
		field:     field,
		message:   message,
	}
}

func (c *CrossField[T, V]) IsValid(v T) bool {
	p, s := c.primary(v), c.secondary(v)
	if p == nil || s == nil {
		return true
	}
	return *p == *s
}

// Validate returns the violation for v or nil.
func (c *CrossField[T, V]) Validate(v T) *errs.Error {
	if c.IsValid(v) {
		return nil
	}
	return errs.Validation(c.field, c.message)
}

// Rule returns c as a composable rule.
func (c *CrossField[T, V]) Rule() Rule[T] {
	return c.Validate
}
