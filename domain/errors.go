package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrNoPermission will throw if the sender is not allowed to touch the record
	ErrNoPermission = errors.New("No permission")
	// ErrCapacity will throw if a per-account record cap is reached
	ErrCapacity = errors.New("Capacity exceeded")
	// ErrConflict will throw if the action would spend inventory reserved elsewhere
	ErrConflict = errors.New("Conflict with reserved inventory")
	// ErrInsufficient will throw if a balance or allowance can't cover the action
	ErrInsufficient = errors.New("Insufficient balance or allowance")

	ErrNotImplemented = errors.New("not implemented")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
)

// MarketError is a user-visible failure. Msg is surfaced verbatim, Kind is one of the sentinels above.
type MarketError struct {
	Kind error
	Msg  string
}

func (e *MarketError) Error() string {
	return e.Msg
}

func (e *MarketError) Unwrap() error {
	return e.Kind
}

func newMarketError(kind error, format string, args ...interface{}) error {
	return &MarketError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func BadParam(format string, args ...interface{}) error {
	return newMarketError(ErrBadParamInput, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newMarketError(ErrNotFound, format, args...)
}

func NoPermission(format string, args ...interface{}) error {
	return newMarketError(ErrNoPermission, format, args...)
}

func Capacity(format string, args ...interface{}) error {
	return newMarketError(ErrCapacity, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newMarketError(ErrConflict, format, args...)
}

func Insufficient(format string, args ...interface{}) error {
	return newMarketError(ErrInsufficient, format, args...)
}

func NotImplemented(format string, args ...interface{}) error {
	return newMarketError(ErrNotImplemented, format, args...)
}
