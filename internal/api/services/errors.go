package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"toolinventory/internal/repository"
)

type ErrorKind int

const (
	// KindInternal is the zero value so an unclassified failure never leaks as a client error.
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the single failure type returned by service operations.
type Error struct {
	Kind    ErrorKind
	Details map[string]string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		fields := make([]string, 0, len(e.Details))
		for field := range e.Details {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(&b, " %s=%q", field, e.Details[field])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	MsgNameNotUnique     = "Tool name must be unique"
	MsgCategoryNotExists = "Category does not exist"
	MsgToolNotExists     = "Tool does not exist"
)

func ValidationFailed(details map[string]string) *Error {
	return &Error{Kind: KindValidation, Details: details}
}

func FieldInvalid(field, reason string) *Error {
	return ValidationFailed(map[string]string{field: reason})
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// storeError re-maps record store failures so that a constraint caught by the store looks
// the same to callers as one caught by a service pre-check.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}

	wrapped := fmt.Errorf("%s: %w", op, err)
	switch {
	case errors.Is(err, repository.ErrDuplicateToolName):
		return &Error{Kind: KindValidation, Details: map[string]string{"name": MsgNameNotUnique}, Err: wrapped}
	case errors.Is(err, repository.ErrCategoryNotFound):
		return &Error{Kind: KindValidation, Details: map[string]string{"category_id": MsgCategoryNotExists}, Err: wrapped}
	case errors.Is(err, repository.ErrToolNotFound):
		return &Error{Kind: KindNotFound, Message: MsgToolNotExists, Err: wrapped}
	case errors.Is(err, repository.ErrStoreUnavailable):
		return &Error{Kind: KindUnavailable, Err: wrapped}
	default:
		return Internal(wrapped)
	}
}
