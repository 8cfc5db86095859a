package split

import (
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// SeatStatus is the derived lifecycle state of a dining position.  There is
// no transition table: status is recomputed from scratch on every query.
type SeatStatus string

const (
	SeatEmpty   SeatStatus = "empty"   // no items attributed to the seat
	SeatStale   SeatStatus = "stale"   // items exist but none touched recently
	SeatActive  SeatStatus = "active"  // at least one item touched within the window
	SeatPrinted SeatStatus = "printed" // at least one item routed to the kitchen
	SeatPaid    SeatStatus = "paid"    // a completed payment settles the seat
)

// DefaultStalenessWindow is how recently a seat's items must have been
// touched to count as active.
const DefaultStalenessWindow = 5 * time.Minute

// ClassifySeat derives the seat's status from items and payments.  The
// evaluation order is significant and fixed:
//
//  1. paid — a completed seat-matched payment short-circuits everything.
//  2. empty — the seat holds no items.
//  3. printed — any item routed to the kitchen, regardless of recency.
//  4. active / stale — by the most recent item timestamp against the window.
func ClassifySeat(items []model.OrderItem, payments []model.Payment, seat int, window time.Duration, now time.Time) SeatStatus {
	if model.SeatPaid(payments, seat) {
		return SeatPaid
	}

	var seatItems []model.OrderItem
	for _, it := range items {
		if it.SeatNumber != nil && *it.SeatNumber == seat {
			seatItems = append(seatItems, it)
		}
	}
	if len(seatItems) == 0 {
		return SeatEmpty
	}

	for _, it := range seatItems {
		if it.KitchenStatus != "" && it.KitchenStatus != model.KitchenPending {
			return SeatPrinted
		}
	}

	if window <= 0 {
		window = DefaultStalenessWindow
	}
	for _, it := range seatItems {
		last := it.CreatedAt
		if it.UpdatedAt.After(last) {
			last = it.UpdatedAt
		}
		if now.Sub(last) <= window {
			return SeatActive
		}
	}
	return SeatStale
}
