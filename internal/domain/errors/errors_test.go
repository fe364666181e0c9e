package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"invalid input", ErrInvalidInput},
		{"not found", ErrNotFound},
		{"invalid state", ErrInvalidState},
		{"invalid signature", ErrInvalidSignature},
		{"payment not completed", ErrPaymentNotCompleted},
		{"below minimum", ErrBelowMinimum},
		{"already exists", ErrAlreadyExists},
		{"invalid credentials", ErrInvalidCredentials},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestInvalidStateErrorMatchesSentinel(t *testing.T) {
	err := &InvalidStateError{Status: "Cancelled"}
	if !stdErrors.Is(err, ErrInvalidState) {
		t.Fatal("expected InvalidStateError to match ErrInvalidState")
	}
	if err.Error() != "invalid order state Cancelled" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestGatewayErrorUnwraps(t *testing.T) {
	err := &GatewayError{Op: "retrieve checkout session", Err: ErrNotFound}
	if !stdErrors.Is(err, ErrNotFound) {
		t.Fatal("expected GatewayError to unwrap to its cause")
	}
	if err.Error() != "payment gateway: retrieve checkout session: not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
