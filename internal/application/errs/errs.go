package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Repository level sentinel errors. Services translate them into typed errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrDataConflict = errors.New("data conflict")
)

// Kind classifies an application error. The transport layer maps kinds
// to status codes, anything not classified is an internal error.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindBusinessRule:
		return "UNPROCESSABLE_ENTITY"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Error is a classified application error with a human-readable message.
// Field is set when the error is scoped to a single input field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is reports errors of the same kind and message as equal,
// so callers may match against a prototype with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message && e.Field == t.Field
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func BusinessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var v *ValidationErrors
	if errors.As(err, &v) {
		return KindValidation
	}
	return KindInternal
}

// ValidationErrors aggregates field violations of a single request.
// The first violation per field wins.
type ValidationErrors struct {
	Fields map[string]string
}

func (v *ValidationErrors) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, v.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records the violation unless the field already has one.
func (v *ValidationErrors) Add(e *Error) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[e.Field]; !ok {
		v.Fields[e.Field] = e.Message
	}
}

// OrNil returns nil when no violations were collected.
func (v *ValidationErrors) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}
