// Package stripegw adapts the Stripe hosted-checkout API to the storefront's
// payment gateway contract. It holds no durable state; orders own everything
// that must survive a redelivery.
package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
)

const checkoutCompletedEvent = "checkout.session.completed"

// LineItem is one priced checkout position sent to the gateway.
type LineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int64
}

// Session is the gateway-side view of a checkout attempt, reduced to what the
// storefront needs to locate and settle the matching order.
type Session struct {
	ID        string
	URL       string
	OrderID   int64
	UserID    int64
	Paid      bool
	PaymentID string
}

// Event is a verified gateway notification. Only completed checkouts carry a
// session; everything else is acknowledged and dropped.
type Event struct {
	CheckoutCompleted bool
	Session           Session
}

// Gateway abstracts the external payment processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, order *model.Order, items []LineItem, tax float64, successURL, cancelURL string) (*Session, error)
	VerifyEvent(payload []byte, signature string) (*Event, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	webhookSecret string
	currency      string
	minAmount     float64
	logger        *slog.Logger
}

// New configures the process-wide Stripe client and returns the gateway.
func New(secretKey, webhookSecret, currency string, minAmount float64, logger *slog.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is empty")
	}
	if webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret is empty")
	}
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: 15 * time.Second})
	return &StripeGateway{
		webhookSecret: webhookSecret,
		currency:      currency,
		minAmount:     minAmount,
		logger:        logger,
	}, nil
}

// CreateCheckoutSession opens a hosted checkout for the order: one line item
// per order position plus a synthetic tax line, with the order and user ids
// attached as metadata for the asynchronous confirmation path.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *model.Order, items []LineItem, tax float64, successURL, cancelURL string) (*Session, error) {
	if order.Amount < g.minAmount {
		return nil, &domainErrors.GatewayError{Op: "create checkout session", Err: domainErrors.ErrBelowMinimum}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems:  buildLineItems(items, tax, g.currency),
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatInt(order.ID, 10))
	params.AddMetadata("user_id", strconv.FormatInt(order.UserID, 10))

	created, err := session.New(params)
	if err != nil {
		return nil, &domainErrors.GatewayError{Op: "create checkout session", Err: err}
	}

	result := fromCheckoutSession(created)
	result.OrderID = order.ID
	result.UserID = order.UserID
	return result, nil
}

// VerifyEvent checks the payload signature against the webhook secret before
// any parsing. Unverifiable payloads fail closed with ErrInvalidSignature.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
	}

	if event.Type != checkoutCompletedEvent {
		g.logger.Debug("ignoring gateway event", slog.String("type", string(event.Type)))
		return &Event{}, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	return &Event{CheckoutCompleted: true, Session: *fromCheckoutSession(&cs)}, nil
}

// RetrieveSession fetches the current state of a checkout session, used by
// post-redirect polling and the pending-payment reconciler.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	fetched, err := session.Get(sessionID, params)
	if err != nil {
		return nil, &domainErrors.GatewayError{Op: "retrieve checkout session", Err: err}
	}
	return fromCheckoutSession(fetched), nil
}

// fromCheckoutSession is the single place deciding whether a session counts
// as paid; the webhook, polling, and worker paths all agree through it.
func fromCheckoutSession(cs *stripe.CheckoutSession) *Session {
	s := &Session{
		ID:   cs.ID,
		URL:  cs.URL,
		Paid: cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if cs.PaymentIntent != nil {
		s.PaymentID = cs.PaymentIntent.ID
	}
	if raw, ok := cs.Metadata["order_id"]; ok {
		s.OrderID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := cs.Metadata["user_id"]; ok {
		s.UserID, _ = strconv.ParseInt(raw, 10, 64)
	}
	return s
}

// buildLineItems converts order positions to gateway line items in minor
// currency units, appending the tax as its own line.
func buildLineItems(items []LineItem, tax float64, currency string) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)+1)
	for _, item := range items {
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(minorUnits(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	out = append(out, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(minorUnits(tax)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Tax"),
			},
		},
		Quantity: stripe.Int64(1),
	})
	return out
}

func minorUnits(amount float64) int64 {
	return int64(math.Floor(amount * 100))
}
