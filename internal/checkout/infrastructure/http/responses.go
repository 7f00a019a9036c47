package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
)

type orderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Username  string              `json:"username"`
	Status    *string             `json:"status"`
	SessionID string              `json:"sessionId"`
	CreatedAt time.Time           `json:"createdAt"`
	Items     []orderItemResponse `json:"items"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      string(item.ProductName),
			Price:     item.Price.String(),
		})
	}

	var status *string
	if order.Details.Status != nil {
		s := string(*order.Details.Status)
		status = &s
	}

	return orderResponse{
		ID:        order.Details.ID,
		Username:  string(order.Details.Username),
		Status:    status,
		SessionID: string(order.Details.SessionID),
		CreatedAt: order.Details.CreatedAt,
		Items:     items,
	}
}
