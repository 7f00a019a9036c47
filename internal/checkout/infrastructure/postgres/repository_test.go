package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
	"github.com/dmehra2102/Order-Checkout-Service/test/integration"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires docker")
	}

	ctx := context.Background()
	url, terminate, err := integration.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(terminate)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewRepository(slog.New(slog.NewTextHandler(io.Discard, nil)), pool)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func mockOrder(t *testing.T, sessionID domain.SessionID, itemNames ...string) domain.Order {
	t.Helper()
	orderID := uuid.New()
	status := domain.StatusOpen

	items := make([]domain.OrderItem, 0, len(itemNames))
	for _, name := range itemNames {
		price, err := domain.NewPrice(9.99)
		require.NoError(t, err)
		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   uuid.New(),
			ProductName: domain.NewProductName(name),
			Price:       price,
		})
	}

	order, err := domain.NewOrder(domain.OrderDetails{
		ID:        orderID,
		Username:  domain.NewUserName("hannes"),
		Status:    &status,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}, items)
	require.NoError(t, err)
	return order
}

func TestCreateAndFindByID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	order := mockOrder(t, "cs_roundtrip", "Widget", "Gadget")

	id, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.Details.ID, id)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.Details.ID, found.Details.ID)
	assert.Equal(t, order.Details.Username, found.Details.Username)
	assert.Equal(t, order.Details.SessionID, found.Details.SessionID)
	require.NotNil(t, found.Details.Status)
	assert.Equal(t, domain.StatusOpen, *found.Details.Status)
	assert.True(t, order.Details.CreatedAt.Equal(found.Details.CreatedAt))

	require.Len(t, found.Items, 2)
	names := map[domain.ProductName]bool{}
	for _, item := range found.Items {
		names[item.ProductName] = true
		assert.Equal(t, order.Details.ID, item.OrderID)
		cents, err := item.Price.Cents()
		require.NoError(t, err)
		assert.Equal(t, int64(999), cents)
	}
	assert.True(t, names["Widget"] && names["Gadget"])
}

func TestFindBySessionID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	order := mockOrder(t, "cs_by_session", "Widget")

	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindBySessionID(ctx, "cs_by_session")
	require.NoError(t, err)
	assert.Equal(t, order.Details.ID, found.Details.ID)

	_, err = repo.FindBySessionID(ctx, "cs_unknown")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestFindByUsername(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, mockOrder(t, "cs_user_1", "Widget"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, mockOrder(t, "cs_user_2", "Gadget"))
	require.NoError(t, err)

	orders, err := repo.FindByUsername(ctx, domain.NewUserName("hannes"))
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	none, err := repo.FindByUsername(ctx, domain.NewUserName("nobody"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateIsAtomic(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	order := mockOrder(t, "cs_atomic", "Widget", "Gadget")
	// Forcing the second item insert to violate the primary key rolls
	// the whole order back, details row included.
	order.Items[1].ID = order.Items[0].ID

	_, err := repo.Create(ctx, order)
	require.Error(t, err)

	_, err = repo.FindByID(ctx, order.Details.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	order := mockOrder(t, "cs_update", "Widget")

	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, order.Details.ID, domain.StatusComplete)
	require.NoError(t, err)
	require.NotNil(t, updated.Details.Status)
	assert.Equal(t, domain.StatusComplete, *updated.Details.Status)
	assert.Len(t, updated.Items, 1)

	_, err = repo.UpdateStatus(ctx, uuid.New(), domain.StatusComplete)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeleteCascades(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	order := mockOrder(t, "cs_delete", "Widget", "Gadget")

	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, order.Details.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Details.ID, deleted)

	_, err = repo.FindByID(ctx, order.Details.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	items, err := repo.itemsForOrder(ctx, order.Details.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Idempotent: deleting again is not an error.
	_, err = repo.Delete(ctx, order.Details.ID)
	assert.NoError(t, err)
}

func TestDeleteAll(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, mockOrder(t, "cs_all_1", "Widget"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, mockOrder(t, "cs_all_2", "Gadget"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAll(ctx))

	orders, err := repo.FindByUsername(ctx, domain.NewUserName("hannes"))
	require.NoError(t, err)
	assert.Empty(t, orders)
}
