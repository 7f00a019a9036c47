package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
)

// Service orchestrates the order lifecycle across the store, the
// payment gateway and the notification sink.
type Service struct {
	log      *slog.Logger
	store    OrderStore
	gateway  PaymentGateway
	notifier NotificationSink
}

func NewService(log *slog.Logger, store OrderStore, gateway PaymentGateway, notifier NotificationSink) *Service {
	return &Service{log: log, store: store, gateway: gateway, notifier: notifier}
}

// CreateOrder opens a checkout session for the requested items and
// persists the resulting order. The gateway call comes first: an order
// must never exist without a session id to reconcile against. A store
// failure after the session was opened leaves an orphaned session,
// which the provider expires on its own.
func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (CheckoutSession, error) {
	if len(req.Items) == 0 {
		return CheckoutSession{}, domain.ErrNoItems
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, ir := range req.Items {
		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     req.ID,
			ProductID:   ir.ProductID,
			ProductName: ir.ProductName,
			Price:       ir.Price,
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, items)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}

	status := domain.StatusOpen
	details := domain.OrderDetails{
		ID:        req.ID,
		Username:  req.Username,
		Status:    &status,
		SessionID: session.ID,
		CreatedAt: time.Now().UTC(),
	}
	order, err := domain.NewOrder(details, items)
	if err != nil {
		return CheckoutSession{}, err
	}

	if _, err := s.store.Create(ctx, order); err != nil {
		s.log.Error("order persist failed after checkout session was opened",
			"order_id", req.ID, "session_id", session.ID, "err", err)
		return CheckoutSession{}, fmt.Errorf("persist order: %w", err)
	}

	s.log.Info("order created", "order_id", req.ID, "session_id", session.ID, "items", len(items))
	return session, nil
}

// ReconcileCheckoutStatus pulls the authoritative session status from
// the gateway and writes it onto the stored order. The gateway is the
// source of truth; the locally stored status only gates transitions.
func (s *Service) ReconcileCheckoutStatus(ctx context.Context, id domain.SessionID) (domain.Order, error) {
	order, err := s.store.FindBySessionID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order by session id: %w", err)
	}

	status, err := s.gateway.RetrieveStatus(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("retrieve checkout status: %w", err)
	}
	if status == nil {
		return domain.Order{}, domain.ErrStatusPending
	}

	if current := order.Details.Status; current != nil {
		if *current == *status && current.Terminal() {
			// Reapplying a terminal status is a no-op.
			return order, nil
		}
		if !domain.CanTransition(*current, *status) {
			return domain.Order{}, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, *current, *status)
		}
	}

	updated, err := s.store.UpdateStatus(ctx, order.Details.ID, *status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	s.log.Info("order status reconciled", "order_id", updated.Details.ID, "status", string(*status))

	if status.Terminal() {
		if err := s.notifier.NotifyOrderResult(ctx, updated.Details.Username, *status); err != nil {
			// Best effort: the status update already happened.
			s.log.Error("order result notification failed", "order_id", updated.Details.ID, "err", err)
		}
	}
	return updated, nil
}

// CancelOrder expires the checkout session and removes the order.
// Gateway first: a hard gateway failure leaves the order intact for a
// retry, while a session the provider already closed is treated as
// expired successfully.
func (s *Service) CancelOrder(ctx context.Context, id domain.SessionID) (uuid.UUID, error) {
	order, err := s.store.FindBySessionID(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find order by session id: %w", err)
	}

	if err := s.gateway.ExpireSession(ctx, order.Details.SessionID); err != nil && !errors.Is(err, domain.ErrSessionFinalized) {
		return uuid.Nil, fmt.Errorf("expire checkout session: %w", err)
	}

	deleted, err := s.store.Delete(ctx, order.Details.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete order: %w", err)
	}
	s.log.Info("order cancelled", "order_id", deleted, "session_id", id)
	return deleted, nil
}

func (s *Service) FindOrderBySessionID(ctx context.Context, id domain.SessionID) (domain.Order, error) {
	order, err := s.store.FindBySessionID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order by session id: %w", err)
	}
	return order, nil
}

func (s *Service) FindOrdersByUsername(ctx context.Context, username domain.UserName) ([]domain.Order, error) {
	orders, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find orders by username: %w", err)
	}
	return orders, nil
}

func (s *Service) FindOrderByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order by id: %w", err)
	}
	return order, nil
}

// DeleteOrder removes a single order without touching its gateway
// session; the session self-expires.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete order: %w", err)
	}
	return deleted, nil
}

// DeleteAllOrders is an administrative reset; gateway sessions are
// left to self-expire.
func (s *Service) DeleteAllOrders(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all orders: %w", err)
	}
	return nil
}
