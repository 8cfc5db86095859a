package repository // repository defines data access for orders and their lines

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ErrOrderNotFound is returned when an order lookup yields no rows.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides read access to orders, their items and their payments.
// The split engine treats all of this as immutable input; writes happen
// only through CheckRepo at commit time.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the given DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// GetByID retrieves an order header including its optimistic version.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT id, table_number, guest_count, status, version, created_at, updated_at
	           FROM orders WHERE id = ?`
	var o model.Order
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&o.ID, &o.TableNumber, &o.GuestCount, &o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListItems retrieves all items of an order in ring-in order, with modifier
// upcharges folded in from the modifiers table.
func (r *OrderRepo) ListItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, seat_number, name, unit_price, quantity, category,
	                  kitchen_status, sent_to_kitchen, is_paid, created_at, updated_at
	           FROM order_items
	           WHERE order_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			it       model.OrderItem
			id       uint64
			seatNum  sql.NullInt64
			category sql.NullString
		)
		if err := rows.Scan(
			&id, &seatNum, &it.Name, &it.UnitPrice, &it.Quantity, &category,
			&it.KitchenStatus, &it.SentToKitchen, &it.IsPaid, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		it.ID = strconv.FormatUint(id, 10)
		if seatNum.Valid {
			seat := int(seatNum.Int64)
			it.SeatNumber = &seat
		}
		if category.Valid {
			it.Category = category.String
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mods, err := r.listModifierPrices(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ModifierPrices = mods[items[i].ID]
	}
	return items, nil
}

// listModifierPrices loads per-unit modifier upcharges for every item on
// the order, keyed by item id.
func (r *OrderRepo) listModifierPrices(ctx context.Context, orderID uint64) (map[string][]float64, error) {
	const q = `SELECT m.order_item_id, m.price
	           FROM order_item_modifiers m
	           JOIN order_items i ON i.id = m.order_item_id
	           WHERE i.order_id = ?
	           ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]float64{}
	for rows.Next() {
		var itemID uint64
		var price float64
		if err := rows.Scan(&itemID, &price); err != nil {
			return nil, err
		}
		key := strconv.FormatUint(itemID, 10)
		out[key] = append(out[key], price)
	}
	return out, rows.Err()
}

// ListPayments retrieves the order's payment records.  Only status and the
// optional seat number from the payment metadata matter to the engine.
func (r *OrderRepo) ListPayments(ctx context.Context, orderID uint64) ([]model.Payment, error) {
	const q = `SELECT status, seat_number FROM payments WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		var seatNum sql.NullInt64
		if err := rows.Scan(&p.Status, &seatNum); err != nil {
			return nil, err
		}
		if seatNum.Valid {
			seat := int(seatNum.Int64)
			p.SeatNumber = &seat
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
