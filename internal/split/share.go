package split

import (
	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Mode is the active partitioning strategy of a split session.
type Mode string

const (
	ModeBySeat           Mode = "by_seat"           // one check per occupied seat
	ModeCustom           Mode = "custom"            // free-form, staff move shares by hand
	ModeEven             Mode = "even"              // display-only; splitting happens via SplitShare
	ModeBusinessPleasure Mode = "business_pleasure" // expense-report partition by category
)

// ValidMode reports whether m is one of the known partition modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeBySeat, ModeCustom, ModeEven, ModeBusinessPleasure:
		return true
	}
	return false
}

// SplitGroupID links the shares descended from splitting one original item.
// It is a real identity, minted once per split, never derived from item
// fields, so unrelated splits cannot collide.
type SplitGroupID string

// NewSplitGroupID mints a fresh group identity.
func NewSplitGroupID() SplitGroupID {
	return SplitGroupID(uuid.NewString())
}

// Share is the minimal allocatable slice of an item's monetary value.  A
// share is whole (SplitGroup empty, Quantity from the source item) unless it
// was produced by SplitShare, in which case Quantity is always 1 and
// FractionLabel carries its "1/3"-style position.
type Share struct {
	ID             string       // session-local identity
	OriginalItemID string       // back-reference to the source order item
	SeatNumber     *int         // copied from the source item
	Name           string       // display name
	Amount         float64      // per-unit dollar amount
	Quantity       int          // always 1 for fractional shares
	Category       string       // copied from the source item
	SentToKitchen  bool         // copied from the source item
	IsPaid         bool         // paid shares are immutable
	SplitGroup     SplitGroupID // empty for whole shares
	FractionLabel  string       // "" for whole shares
}

// Extended is the share's full monetary value (amount x quantity).
func (s Share) Extended() float64 {
	return RoundToCents(s.Amount * float64(s.Quantity))
}

// Check is one independently payable bill fragment derived from the order.
// Subtotal is maintained by the session and always equals the sum of the
// shares' extended amounts.
type Check struct {
	ID         string  // session-local identity
	Label      string  // "Seat 3", "Check 2", "Business", ...
	Color      string  // display color from a fixed palette
	SeatNumber *int    // set only for by-seat checks
	Shares     []Share // ordered
	Subtotal   float64
}

// recalc recomputes the check's subtotal from its shares.
func (c *Check) recalc() {
	var sum float64
	for _, sh := range c.Shares {
		sum += sh.Extended()
	}
	c.Subtotal = RoundToCents(sum)
}

// shareFromItem builds the initial whole share for a source order item.
// The per-unit amount folds modifier upcharges into the unit price so the
// share's extended value equals the item's extended amount.
func shareFromItem(it model.OrderItem) Share {
	unit := it.UnitPrice
	for _, m := range it.ModifierPrices {
		unit += m
	}
	return Share{
		ID:             uuid.NewString(),
		OriginalItemID: it.ID,
		SeatNumber:     it.SeatNumber,
		Name:           it.Name,
		Amount:         unit,
		Quantity:       it.Quantity,
		Category:       it.Category,
		SentToKitchen:  it.SentToKitchen,
		IsPaid:         it.IsPaid,
	}
}
