package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
)

//go:embed schema.sql
var schema string

const detailsColumns = `id, username, status, session_id, created_at`

// Repository is the pgx-backed OrderStore. The pool is injected and
// shared; each Create runs in its own transaction.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Migrate applies the embedded schema. Safe to run repeatedly.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Create writes the details row and all item rows in one transaction.
// Either the whole order becomes visible or none of it does.
func (r *Repository) Create(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	d := order.Details
	_, err = tx.Exec(ctx, `INSERT INTO order_details (id, username, status, session_id, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, string(d.Username), statusColumn(d.Status), string(d.SessionID), d.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert order details %s: %w", d.ID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(`INSERT INTO order_item (id, product_name, product_id, price, order_id)
			VALUES ($1,$2,$3,$4,$5)`,
			item.ID, string(item.ProductName), item.ProductID, item.Price.Decimal().String(), d.ID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, fmt.Errorf("insert order items for %s: %w", d.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit transaction: %w", err)
	}
	return d.ID, nil
}

func (r *Repository) FindBySessionID(ctx context.Context, id domain.SessionID) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+detailsColumns+` FROM order_details WHERE session_id=$1`, string(id))
	details, err := scanDetails(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("session %s: %w", id, domain.ErrOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("find order by session id %s: %w", id, err)
	}
	return r.assemble(ctx, details)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+detailsColumns+` FROM order_details WHERE id=$1`, id)
	details, err := scanDetails(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("find order by id %s: %w", id, err)
	}
	return r.assemble(ctx, details)
}

func (r *Repository) FindByUsername(ctx context.Context, username domain.UserName) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+detailsColumns+` FROM order_details WHERE username=$1`, string(username))
	if err != nil {
		return nil, fmt.Errorf("find orders for %s: %w", username, err)
	}
	defer rows.Close()

	var allDetails []domain.OrderDetails
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order details for %s: %w", username, err)
		}
		allDetails = append(allDetails, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order details for %s: %w", username, err)
	}

	orders := make([]domain.Order, 0, len(allDetails))
	for _, details := range allDetails {
		order, err := r.assemble(ctx, details)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus writes only the status column and returns the refreshed
// aggregate. The single UPDATE ... RETURNING keeps concurrent writers
// deterministic: the last one wins.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `UPDATE order_details SET status=$1 WHERE id=$2 RETURNING `+detailsColumns,
		string(status), id)
	details, err := scanDetails(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("update status of order %s: %w", id, err)
	}
	return r.assemble(ctx, details)
}

// Delete removes the order; items go with it via the cascade. Deleting
// an id that does not exist is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, err := r.pool.Exec(ctx, `DELETE FROM order_details WHERE id=$1`, id); err != nil {
		return uuid.Nil, fmt.Errorf("delete order %s: %w", id, err)
	}
	return id, nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM order_details`); err != nil {
		return fmt.Errorf("delete all orders: %w", err)
	}
	return nil
}

func (r *Repository) assemble(ctx context.Context, details domain.OrderDetails) (domain.Order, error) {
	items, err := r.itemsForOrder(ctx, details.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load items for order %s: %w", details.ID, err)
	}
	order, err := domain.NewOrder(details, items)
	if err != nil {
		// A details row without items should not exist given the
		// transactional create.
		return domain.Order{}, fmt.Errorf("order %s: %w", details.ID, err)
	}
	return order, nil
}

func (r *Repository) itemsForOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_name, product_id, price::text, order_id FROM order_item WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item  domain.OrderItem
			name  string
			price string
		)
		if err := rows.Scan(&item.ID, &name, &item.ProductID, &price, &item.OrderID); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price of item %s: %w", item.ID, err)
		}
		p, err := domain.NewPriceFromDecimal(amount)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		item.ProductName = domain.NewProductName(name)
		item.Price = p
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanDetails(row pgx.Row) (domain.OrderDetails, error) {
	var (
		d      domain.OrderDetails
		user   string
		status *string
		sess   string
	)
	if err := row.Scan(&d.ID, &user, &status, &sess, &d.CreatedAt); err != nil {
		return domain.OrderDetails{}, err
	}
	d.Username = domain.NewUserName(user)
	d.SessionID = domain.SessionID(sess)
	if status != nil {
		parsed, err := domain.ParseSessionStatus(*status)
		if err != nil {
			return domain.OrderDetails{}, err
		}
		d.Status = &parsed
	}
	return d, nil
}

func statusColumn(status *domain.SessionStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
