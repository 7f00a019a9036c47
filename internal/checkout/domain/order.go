package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserName is trimmed but otherwise unconstrained: usernames originate
// in an external identity system that owns their validation.
type UserName string

func NewUserName(raw string) UserName { return UserName(strings.TrimSpace(raw)) }

type ProductName string

func NewProductName(raw string) ProductName { return ProductName(strings.TrimSpace(raw)) }

// SessionID is the opaque checkout session identifier assigned by the
// payment provider.
type SessionID string

// OrderItem is one priced line of an order. Quantity is modeled by
// repeated item rows, not a quantity field. Items are immutable once
// created.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName ProductName
	Price       Price
}

type OrderDetails struct {
	ID        uuid.UUID
	Username  UserName
	Status    *SessionStatus
	SessionID SessionID
	CreatedAt time.Time
}

// Order is the aggregate root: details plus a non-empty item list,
// treated as a single consistency unit.
type Order struct {
	Details OrderDetails
	Items   []OrderItem
}

func NewOrder(details OrderDetails, items []OrderItem) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrNoItems
	}
	return Order{Details: details, Items: items}, nil
}

type CreateOrderItemRequest struct {
	ProductID   uuid.UUID
	ProductName ProductName
	Price       Price
}

type CreateOrderRequest struct {
	ID       uuid.UUID
	Username UserName
	Items    []CreateOrderItemRequest
}

func NewCreateOrderRequest(username UserName, items []CreateOrderItemRequest) CreateOrderRequest {
	return CreateOrderRequest{ID: uuid.New(), Username: username, Items: items}
}
