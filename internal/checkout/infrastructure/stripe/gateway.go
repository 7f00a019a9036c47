package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/application"
	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
)

// Gateway is the Stripe-backed PaymentGateway. The API client is owned
// by the gateway and injected with its secret at construction.
type Gateway struct {
	log         *slog.Logger
	api         *client.API
	redirectURL string
}

func NewGateway(log *slog.Logger, secretKey, redirectURL string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{log: log, api: api, redirectURL: redirectURL}
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, items []domain.OrderItem) (application.CheckoutSession, error) {
	lines, err := lineItems(items)
	if err != nil {
		return application.CheckoutSession{}, err
	}

	params := &stripeapi.CheckoutSessionParams{
		Params:                   stripeapi.Params{Context: ctx},
		Mode:                     stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripeapi.StringSlice([]string{"card"}),
		BillingAddressCollection: stripeapi.String(string(stripeapi.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripeapi.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripeapi.StringSlice([]string{"DE", "US"}),
		},
		SuccessURL: stripeapi.String(g.redirectURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(g.redirectURL + "/cancel?session_id={CHECKOUT_SESSION_ID}"),
		LineItems:  lines,
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return application.CheckoutSession{}, fmt.Errorf("create stripe checkout session: %w", err)
	}
	g.log.Info("checkout session opened", "session_id", sess.ID, "line_items", len(lines))
	return application.CheckoutSession{ID: domain.SessionID(sess.ID), RedirectURL: sess.URL}, nil
}

func (g *Gateway) RetrieveStatus(ctx context.Context, id domain.SessionID) (*domain.SessionStatus, error) {
	sess, err := g.api.CheckoutSessions.Get(string(id), &stripeapi.CheckoutSessionParams{
		Params: stripeapi.Params{Context: ctx},
	})
	if err != nil {
		if isMissingSession(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSessionID, id)
		}
		return nil, fmt.Errorf("retrieve checkout session %s: %w", id, err)
	}
	return statusFromSession(sess.Status), nil
}

func (g *Gateway) ExpireSession(ctx context.Context, id domain.SessionID) error {
	_, err := g.api.CheckoutSessions.Expire(string(id), &stripeapi.CheckoutSessionExpireParams{
		Params: stripeapi.Params{Context: ctx},
	})
	if err == nil {
		return nil
	}
	if isMissingSession(err) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSessionID, id)
	}
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 400 {
		// Stripe rejects expiring a session that is no longer open.
		g.log.Info("checkout session already finalized", "session_id", id)
		return fmt.Errorf("%w: %s", domain.ErrSessionFinalized, id)
	}
	return fmt.Errorf("expire checkout session %s: %w", id, err)
}

// Quantity is fixed at 1: the aggregate models quantity through
// repeated item rows.
func lineItems(items []domain.OrderItem) ([]*stripeapi.CheckoutSessionLineItemParams, error) {
	lines := make([]*stripeapi.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		cents, err := item.Price.Cents()
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		lines = append(lines, &stripeapi.CheckoutSessionLineItemParams{
			Quantity: stripeapi.Int64(1),
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripeapi.String(string(stripeapi.CurrencyEUR)),
				UnitAmount: stripeapi.Int64(cents),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(string(item.ProductName)),
				},
			},
		})
	}
	return lines, nil
}

func statusFromSession(status stripeapi.CheckoutSessionStatus) *domain.SessionStatus {
	var mapped domain.SessionStatus
	switch status {
	case stripeapi.CheckoutSessionStatusOpen:
		mapped = domain.StatusOpen
	case stripeapi.CheckoutSessionStatusComplete:
		mapped = domain.StatusComplete
	case stripeapi.CheckoutSessionStatusExpired:
		mapped = domain.StatusExpired
	default:
		return nil
	}
	return &mapped
}

func isMissingSession(err error) bool {
	var stripeErr *stripeapi.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.Code == stripeapi.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == 404
}
