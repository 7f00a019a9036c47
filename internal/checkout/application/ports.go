package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
)

// CheckoutSession is what the payment gateway hands back when a
// session is opened: the provider-side id plus the URL the buyer is
// redirected to.
type CheckoutSession struct {
	ID          domain.SessionID
	RedirectURL string
}

// OrderStore is the transactional persistence port for orders. Create
// writes details and all items atomically; reads reconstruct the full
// aggregate. Lookups that miss return domain.ErrOrderNotFound.
type OrderStore interface {
	FindBySessionID(ctx context.Context, id domain.SessionID) (domain.Order, error)
	FindByUsername(ctx context.Context, username domain.UserName) ([]domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Create(ctx context.Context, order domain.Order) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) (domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	DeleteAll(ctx context.Context) error
}

// PaymentGateway wraps the external checkout provider. RetrieveStatus
// returns nil when the provider has no status opinion yet, and
// domain.ErrInvalidSessionID when the id is unknown to the provider.
// ExpireSession returns domain.ErrSessionFinalized for sessions the
// provider already closed.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, items []domain.OrderItem) (CheckoutSession, error)
	RetrieveStatus(ctx context.Context, id domain.SessionID) (*domain.SessionStatus, error)
	ExpireSession(ctx context.Context, id domain.SessionID) error
}

// NotificationSink publishes the final checkout result for a user.
// Delivery is best effort; a failure never aborts the operation that
// triggered it.
type NotificationSink interface {
	NotifyOrderResult(ctx context.Context, username domain.UserName, status domain.SessionStatus) error
}
