package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid order state")
	ErrInvalidSignature    = errors.New("invalid event signature")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrBelowMinimum        = errors.New("amount below online payment minimum")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// InvalidStateError reports a rejected order transition together with the
// status observed at the time of the write.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid order state %s", e.Status)
}

// Is makes the error match ErrInvalidState under errors.Is.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// GatewayError wraps a failed call to the payment gateway.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
