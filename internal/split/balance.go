package split

import (
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// TaxPolicy carries the tax rate applied to seat balances.  It is an
// explicit argument on every calculation: the rate comes from an external
// settings source and defaults to zero when unset, never silently assumed
// nonzero.
type TaxPolicy struct {
	Rate float64 // e.g. 0.0825 for 8.25%
}

// SeatBalance is the live running balance of one dining position.
type SeatBalance struct {
	SeatNumber int        `json:"seat_number"`
	Subtotal   float64    `json:"subtotal"`
	TaxAmount  float64    `json:"tax_amount"`
	Total      float64    `json:"total"`
	ItemCount  int        `json:"item_count"`
	Status     SeatStatus `json:"status"`
}

// CalculateSeatBalance computes a seat's subtotal, tax and total from the
// raw order items.  Subtotal sums (unit price + modifier upcharges) x
// quantity over items attributed to the seat; tax and total are rounded
// through the shared cents rule.  Status is not set here, see ClassifySeat.
func CalculateSeatBalance(items []model.OrderItem, seat int, tax TaxPolicy) SeatBalance {
	b := SeatBalance{SeatNumber: seat}
	var subtotal float64
	for _, it := range items {
		if it.SeatNumber == nil || *it.SeatNumber != seat {
			continue
		}
		subtotal += it.ExtendedAmount()
		b.ItemCount += it.Quantity
	}
	b.Subtotal = RoundToCents(subtotal)
	b.TaxAmount = RoundToCents(b.Subtotal * tax.Rate)
	b.Total = RoundToCents(b.Subtotal + b.TaxAmount)
	return b
}

// CalculateAllSeatBalances produces exactly one balance per integer seat
// from 1 through totalSeats inclusive, whether or not the seat currently
// holds any item.  Unused seats report a zero balance with status "empty".
func CalculateAllSeatBalances(items []model.OrderItem, totalSeats int, payments []model.Payment, tax TaxPolicy, window time.Duration, now time.Time) []SeatBalance {
	out := make([]SeatBalance, 0, totalSeats)
	for seat := 1; seat <= totalSeats; seat++ {
		b := CalculateSeatBalance(items, seat, tax)
		b.Status = ClassifySeat(items, payments, seat, window, now)
		out = append(out, b)
	}
	return out
}
