package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDetails(t *testing.T) OrderDetails {
	t.Helper()
	status := StatusOpen
	return OrderDetails{
		ID:        uuid.New(),
		Username:  NewUserName("hannes"),
		Status:    &status,
		SessionID: SessionID("cs_test_123"),
		CreatedAt: time.Now().UTC(),
	}
}

func testItem(t *testing.T, orderID uuid.UUID) OrderItem {
	t.Helper()
	price, err := NewPrice(5.0)
	require.NoError(t, err)
	return OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   uuid.New(),
		ProductName: NewProductName("Testprodukt"),
		Price:       price,
	}
}

func TestNewOrder(t *testing.T) {
	details := testDetails(t)
	order, err := NewOrder(details, []OrderItem{testItem(t, details.ID)})

	require.NoError(t, err)
	assert.Equal(t, details, order.Details)
	assert.Len(t, order.Items, 1)
}

func TestNewOrderNoItems(t *testing.T) {
	_, err := NewOrder(testDetails(t), nil)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder(testDetails(t), []OrderItem{})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestNewUserNameTrims(t *testing.T) {
	assert.Equal(t, UserName("hannes"), NewUserName("  hannes \n"))
	assert.Equal(t, ProductName("Widget"), NewProductName("\tWidget "))
}
