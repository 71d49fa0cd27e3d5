package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a malformed request, as opposed to a rejected one.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind classifies a rejected core operation.
type ErrorKind string

const (
	KindOutOfStock     ErrorKind = "OutOfStock"
	KindStockExceeded  ErrorKind = "StockExceeded"
	KindNotFound       ErrorKind = "NotFound"
	KindDuplicateCode  ErrorKind = "DuplicateCode"
	KindEmptyCart      ErrorKind = "EmptyCart"
	KindInvalidRange   ErrorKind = "InvalidRange"
	KindCouponRejected ErrorKind = "CouponRejected"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrOutOfStock     = &Error{Kind: KindOutOfStock}
	ErrStockExceeded  = &Error{Kind: KindStockExceeded}
	ErrItemNotFound   = &Error{Kind: KindNotFound}
	ErrDuplicateCode  = &Error{Kind: KindDuplicateCode}
	ErrEmptyCart      = &Error{Kind: KindEmptyCart}
	ErrInvalidRange   = &Error{Kind: KindInvalidRange}
	ErrCouponRejected = &Error{Kind: KindCouponRejected}
)

// Error is a recoverable rejection of a core operation. The state it was
// computed against is left unchanged.
type Error struct {
	Kind    ErrorKind
	Message string
	// Limit carries the bound that was violated (remaining stock, max stock,
	// clamped value), when there is one.
	Limit int64
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an *Error with a formatted message.
func NewError(kind ErrorKind, limit int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Limit: limit, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a core error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
