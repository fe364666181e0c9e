package test

import (
	"context"

	"github.com/freshbasket/storefront/internal/adapter/stripegw"
	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
)

// GatewayStub simulates the payment gateway for use case tests.
type GatewayStub struct {
	CreateFn   func(context.Context, *model.Order, []stripegw.LineItem, float64, string, string) (*stripegw.Session, error)
	VerifyFn   func([]byte, string) (*stripegw.Event, error)
	RetrieveFn func(context.Context, string) (*stripegw.Session, error)

	Sessions map[string]*stripegw.Session

	CreatedFor []int64
	LineItems  [][]stripegw.LineItem
}

// CreateCheckoutSession records the call and returns a deterministic session.
func (s *GatewayStub) CreateCheckoutSession(ctx context.Context, order *model.Order, items []stripegw.LineItem, tax float64, successURL, cancelURL string) (*stripegw.Session, error) {
	s.CreatedFor = append(s.CreatedFor, order.ID)
	s.LineItems = append(s.LineItems, items)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items, tax, successURL, cancelURL)
	}
	return &stripegw.Session{
		ID:      "cs_test",
		URL:     "https://pay.example/cs_test",
		OrderID: order.ID,
		UserID:  order.UserID,
	}, nil
}

// VerifyEvent delegates to the override or reports an invalid signature.
func (s *GatewayStub) VerifyEvent(payload []byte, signature string) (*stripegw.Event, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(payload, signature)
	}
	return nil, domainErrors.ErrInvalidSignature
}

// RetrieveSession returns the configured session or not found via the
// override.
func (s *GatewayStub) RetrieveSession(ctx context.Context, sessionID string) (*stripegw.Session, error) {
	if s.RetrieveFn != nil {
		return s.RetrieveFn(ctx, sessionID)
	}
	if session, ok := s.Sessions[sessionID]; ok {
		result := *session
		return &result, nil
	}
	return nil, &domainErrors.GatewayError{Op: "retrieve checkout session", Err: domainErrors.ErrNotFound}
}
