package model

import "time"

// Order statuses relevant to splitting.  A split session may only be opened
// on an open order; settled and voided orders are immutable.
const (
	OrderOpen    = "open"
	OrderSettled = "settled"
	OrderVoided  = "voided"
)

// Order is the header row of a dining order.  Version is an optimistic
// concurrency counter: committing a split increments it and a commit built
// against a stale version is rejected, which is how two terminals splitting
// the same order at once are resolved.
type Order struct {
	ID          uint64    // orders.id
	TableNumber uint32    // orders.table_number
	GuestCount  int       // orders.guest_count (number of seats in play)
	Status      string    // open | settled | voided
	Version     uint64    // orders.version, bumped on every commit
	CreatedAt   time.Time // orders.created_at
	UpdatedAt   time.Time // orders.updated_at
}
