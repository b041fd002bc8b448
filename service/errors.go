package service

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidTransition  Kind = "invalid_transition"
	KindUnauthorized       Kind = "unauthorized"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindInsufficientAmount Kind = "insufficient_amount"
	KindAlreadyPaid        Kind = "already_paid"
	KindNotPending         Kind = "not_pending"
	KindNotRefundable      Kind = "not_refundable"
	KindNoPayment          Kind = "no_payment"
	KindValidation         Kind = "validation_error"
)

// Error is the discriminated result of a rejected core operation.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so callers can use the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock}
	ErrInsufficientAmount = &Error{Kind: KindInsufficientAmount}
	ErrAlreadyPaid        = &Error{Kind: KindAlreadyPaid}
	ErrNotPending         = &Error{Kind: KindNotPending}
	ErrNotRefundable      = &Error{Kind: KindNotRefundable}
	ErrNoPayment          = &Error{Kind: KindNoPayment}
	ErrValidation         = &Error{Kind: KindValidation}
)

func newError(kind Kind, details map[string]any, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Details: details}
}

// KindOf returns the kind of a core error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, nil, format, args...)
}

func invalid(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}
