package model

import "time"

// Kitchen routing status values carried on an order item.  The engine never
// routes anything itself; it only reads the status to derive seat lifecycle
// state.  An empty status is treated the same as pending (never routed).
const (
	KitchenPending = "pending"
	KitchenFired   = "fired"
	KitchenReady   = "ready"
)

// OrderItem is an immutable source line on a dining order.  It is owned by
// the order-retrieval subsystem and is read-only input to the split engine.
//
// SeatNumber is nil for items that were rung in without a seat (e.g. a
// shared appetizer).  ModifierPrices holds the per-unit price of each
// modifier applied to the item; they extend the unit price.
type OrderItem struct {
	ID             string     // order_items.id
	SeatNumber     *int       // dining position, nil when unassigned
	Name           string     // menu item name at time of ordering
	UnitPrice      float64    // base price per unit in dollars
	Quantity       int        // units ordered
	Category       string     // menu category (food, drinks, liquor, ...)
	ModifierPrices []float64  // per-unit modifier upcharges
	KitchenStatus  string     // pending | fired | ready; "" treated as pending
	SentToKitchen  bool       // whether the item was ever routed
	IsPaid         bool       // whether the item has already been settled
	CreatedAt      time.Time  // when the item was rung in
	UpdatedAt      time.Time  // last modification
}

// ExtendedAmount is the item's full monetary value:
// (unit price + modifier upcharges) x quantity.
func (i OrderItem) ExtendedAmount() float64 {
	unit := i.UnitPrice
	for _, m := range i.ModifierPrices {
		unit += m
	}
	return unit * float64(i.Quantity)
}

// PaymentCompleted is the terminal payment status.  Only completed payments
// count toward seat settlement.
const PaymentCompleted = "completed"

// Payment is a settlement record attached to an order.  SeatNumber comes
// from the payment's metadata and is nil when the payment was not scoped to
// a single seat (e.g. one card covering the whole table).
type Payment struct {
	Status     string // completed | pending | failed | refunded
	SeatNumber *int   // metadata seat number, nil when table-wide
}

// SeatPaid reports whether any completed payment settles the given seat.
func SeatPaid(payments []Payment, seat int) bool {
	for _, p := range payments {
		if p.Status == PaymentCompleted && p.SeatNumber != nil && *p.SeatNumber == seat {
			return true
		}
	}
	return false
}
