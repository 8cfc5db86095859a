package split

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// checkPalette holds the display colors handed out cyclically as checks are
// created.  The palette is fixed so a check keeps its color for the life of
// a session.
var checkPalette = []string{
	"#2563EB", // blue
	"#16A34A", // green
	"#D97706", // amber
	"#DC2626", // red
	"#7C3AED", // violet
	"#0891B2", // teal
}

// DefaultWays is the initial value of the even-split "ways" parameter.
const DefaultWays = 2

// snapshot preserves the construction-time partition so Reset can restore
// it.  It is a structural deep copy, never a serialization round trip.
type snapshot struct {
	checks []Check
	mode   Mode
}

// Session is the in-memory state machine for one split interaction on one
// order.  It is single-threaded and purely in-memory: every operation is a
// total function from (state, arguments) to a new state, unmet
// preconditions are silent no-ops, and nothing is persisted here.  The
// session is either discarded or consumed once by the payload builder at
// commit time.
type Session struct {
	orderID       uint64
	items         []model.OrderItem // source item set, read-only
	checks        []Check
	mode          Mode
	selectedShare string // id of the selected share, "" when none
	ways          int    // even-split UI parameter
	checkCounter  int    // monotonic counter behind "Check N" labels
	originalTotal float64
	snap          snapshot
}

// NewSession builds a session from the order's items, auto-selecting the
// partition mode: by_seat when two or more distinct seat numbers exist
// among unpaid items, custom otherwise.
func NewSession(orderID uint64, items []model.OrderItem) *Session {
	return NewSessionWithMode(orderID, items, "")
}

// NewSessionWithMode builds a session with a forced partition mode.  An
// unknown or empty mode falls back to the auto-selection rule.  The reset
// snapshot and the fixed original total are captured immediately after the
// initial partition.
func NewSessionWithMode(orderID uint64, items []model.OrderItem, forced Mode) *Session {
	s := &Session{
		orderID: orderID,
		items:   append([]model.OrderItem(nil), items...),
		ways:    DefaultWays,
	}
	mode := forced
	if !ValidMode(mode) {
		if distinctUnpaidSeats(items) >= 2 {
			mode = ModeBySeat
		} else {
			mode = ModeCustom
		}
	}
	shares := make([]Share, 0, len(items))
	for _, it := range items {
		shares = append(shares, shareFromItem(it))
	}
	s.partition(mode, shares)
	s.originalTotal = s.SplitTotal()
	s.snap = snapshot{checks: copyChecks(s.checks), mode: s.mode}
	return s
}

// distinctUnpaidSeats counts the distinct seat numbers present among items
// that have not been settled yet.
func distinctUnpaidSeats(items []model.OrderItem) int {
	seen := map[int]struct{}{}
	for _, it := range items {
		if it.IsPaid || it.SeatNumber == nil {
			continue
		}
		seen[*it.SeatNumber] = struct{}{}
	}
	return len(seen)
}

// OrderID returns the order this session was opened for.
func (s *Session) OrderID() uint64 { return s.orderID }

// Items returns the immutable source item set the session was built from.
func (s *Session) Items() []model.OrderItem { return s.items }

// Checks returns the current check list.  Callers must treat it as
// read-only; all mutation goes through session operations.
func (s *Session) Checks() []Check { return s.checks }

// Mode returns the active partition mode.
func (s *Session) Mode() Mode { return s.mode }

// SelectedShareID returns the id of the currently selected share, or ""
// when nothing is selected.
func (s *Session) SelectedShareID() string { return s.selectedShare }

// Ways returns the even-split UI parameter.
func (s *Session) Ways() int { return s.ways }

// SetWays updates the even-split UI parameter.  Values below 2 are ignored.
// The parameter is display-only until SplitShare is invoked with it.
func (s *Session) SetWays(n int) {
	if n >= 2 {
		s.ways = n
	}
}

// OriginalTotal is the order's total captured once at construction.
func (s *Session) OriginalTotal() float64 { return s.originalTotal }

// SplitTotal sums all checks' subtotals.  It must stay within Tolerance of
// OriginalTotal after every operation.
func (s *Session) SplitTotal() float64 {
	var sum float64
	for i := range s.checks {
		sum += s.checks[i].Subtotal
	}
	return RoundToCents(sum)
}

// SelectShare toggles share selection.  Selecting the already-selected id
// deselects it, "" clears the selection, and a paid share refuses
// selection.  Unknown ids are ignored.
func (s *Session) SelectShare(id string) {
	if id == "" {
		s.selectedShare = ""
		return
	}
	if id == s.selectedShare {
		s.selectedShare = ""
		return
	}
	ci, si := s.findShare(id)
	if ci < 0 {
		return
	}
	if s.checks[ci].Shares[si].IsPaid {
		return // settled value can no longer be reallocated
	}
	s.selectedShare = id
}

// MoveSelectedTo relocates the selected share onto the target check,
// recomputes both subtotals and clears the selection.  No-op when nothing
// is selected or the share or target cannot be found.
func (s *Session) MoveSelectedTo(checkID string) {
	if s.selectedShare == "" {
		return
	}
	ci, si := s.findShare(s.selectedShare)
	if ci < 0 {
		return
	}
	ti := s.findCheck(checkID)
	if ti < 0 {
		return
	}
	if ti == ci {
		s.selectedShare = ""
		return
	}
	sh := s.checks[ci].Shares[si]
	s.checks[ci].Shares = append(s.checks[ci].Shares[:si], s.checks[ci].Shares[si+1:]...)
	s.checks[ti].Shares = append(s.checks[ti].Shares, sh)
	s.checks[ci].recalc()
	s.checks[ti].recalc()
	s.selectedShare = ""
}

// MoveSelectedToNewCheck creates a new auto-numbered check containing only
// the selected share.  No-op when nothing is selected.
func (s *Session) MoveSelectedToNewCheck() {
	if s.selectedShare == "" {
		return
	}
	ci, si := s.findShare(s.selectedShare)
	if ci < 0 {
		return
	}
	sh := s.checks[ci].Shares[si]
	s.checks[ci].Shares = append(s.checks[ci].Shares[:si], s.checks[ci].Shares[si+1:]...)
	s.checks[ci].recalc()

	s.checkCounter++
	nc := Check{
		ID:     uuid.NewString(),
		Label:  fmt.Sprintf("Check %d", s.checkCounter),
		Color:  checkPalette[(s.checkCounter-1)%len(checkPalette)],
		Shares: []Share{sh},
	}
	nc.recalc()
	s.checks = append(s.checks, nc)
	s.selectedShare = ""
}

// SplitShare replaces the target share in place with `ways` fractional
// shares.  The amounts are computed in whole cents: the extended amount is
// divided evenly and the residual cents go to the first shares in sequence,
// so the parts always sum to exactly the pre-split amount.  All parts
// inherit the source's seat, category and kitchen flags and join one split
// group; a share that already belongs to a group keeps that group so
// per-group conservation against the originating item still holds.
// No-op when ways < 2, the share cannot be found, or the share is paid.
func (s *Session) SplitShare(shareID string, ways int) {
	if ways < 2 {
		return
	}
	ci, si := s.findShare(shareID)
	if ci < 0 {
		return
	}
	src := s.checks[ci].Shares[si]
	if src.IsPaid {
		return
	}

	total := toCents(src.Extended())
	base := total / int64(ways)
	rem := total % int64(ways)

	group := src.SplitGroup
	if group == "" {
		group = NewSplitGroupID()
	}

	parts := make([]Share, 0, ways)
	for i := 0; i < ways; i++ {
		cents := base
		if int64(i) < rem {
			cents++ // residual cent lands on the earliest shares
		}
		parts = append(parts, Share{
			ID:             uuid.NewString(),
			OriginalItemID: src.OriginalItemID,
			SeatNumber:     src.SeatNumber,
			Name:           src.Name,
			Amount:         fromCents(cents),
			Quantity:       1,
			Category:       src.Category,
			SentToKitchen:  src.SentToKitchen,
			IsPaid:         src.IsPaid,
			SplitGroup:     group,
			FractionLabel:  fmt.Sprintf("%d/%d", i+1, ways),
		})
	}

	shares := s.checks[ci].Shares
	replaced := make([]Share, 0, len(shares)+ways-1)
	replaced = append(replaced, shares[:si]...)
	replaced = append(replaced, parts...)
	replaced = append(replaced, shares[si+1:]...)
	s.checks[ci].Shares = replaced
	s.checks[ci].recalc()

	if s.selectedShare == shareID {
		s.selectedShare = ""
	}
}

// ApplyMode flattens every current share and re-derives the check list
// under the requested mode.  ModeEven only records the mode: actual even
// splitting is performed by calling SplitShare with the session's ways
// parameter.  Selection is always cleared.  Unknown modes are ignored.
func (s *Session) ApplyMode(mode Mode) {
	if !ValidMode(mode) {
		return
	}
	if mode == ModeEven {
		s.mode = ModeEven
		s.selectedShare = ""
		return
	}
	s.partition(mode, s.flatten())
	s.selectedShare = ""
}

// Reset restores checks and mode to the construction-time snapshot, clears
// the selection and resets the ways parameter.
func (s *Session) Reset() {
	s.checks = copyChecks(s.snap.checks)
	s.mode = s.snap.mode
	s.selectedShare = ""
	s.ways = DefaultWays
}

// flatten collects every share from every check in display order.
func (s *Session) flatten() []Share {
	var out []Share
	for i := range s.checks {
		out = append(out, s.checks[i].Shares...)
	}
	return out
}

// partition rebuilds the check list from a flat working set of shares.
func (s *Session) partition(mode Mode, shares []Share) {
	switch mode {
	case ModeBySeat:
		s.checks = s.partitionBySeat(shares)
	case ModeBusinessPleasure:
		s.checks = s.partitionBusinessPleasure(shares)
	default: // custom and even collapse into a single check
		s.checks = []Check{s.singleCheck(shares)}
	}
	s.mode = mode
	for i := range s.checks {
		s.checks[i].recalc()
	}
}

// partitionBySeat groups shares by ascending seat number, one check per
// seat labeled "Seat N".  Shares without a seat go into a trailing
// "No Seat" check, omitted when empty.  When no share carries a seat at
// all, the partition falls back to a single check.
func (s *Session) partitionBySeat(shares []Share) []Check {
	bySeat := map[int][]Share{}
	var noSeat []Share
	for _, sh := range shares {
		if sh.SeatNumber == nil {
			noSeat = append(noSeat, sh)
			continue
		}
		bySeat[*sh.SeatNumber] = append(bySeat[*sh.SeatNumber], sh)
	}
	if len(bySeat) == 0 {
		return []Check{s.singleCheck(shares)}
	}

	seats := make([]int, 0, len(bySeat))
	for n := range bySeat {
		seats = append(seats, n)
	}
	sort.Ints(seats)

	checks := make([]Check, 0, len(seats)+1)
	for i, n := range seats {
		seat := n
		checks = append(checks, Check{
			ID:         uuid.NewString(),
			Label:      fmt.Sprintf("Seat %d", n),
			Color:      checkPalette[i%len(checkPalette)],
			SeatNumber: &seat,
			Shares:     bySeat[n],
		})
	}
	if len(noSeat) > 0 {
		checks = append(checks, Check{
			ID:     uuid.NewString(),
			Label:  "No Seat",
			Color:  checkPalette[len(seats)%len(checkPalette)],
			Shares: noSeat,
		})
	}
	return checks
}

// pleasureCategories maps the category types billed to the "Pleasure" check
// under the business/pleasure partition.  Everything else, including items
// with no recognized category, is business.
var pleasureCategories = map[string]bool{
	"liquor":        true,
	"entertainment": true,
}

// partitionBusinessPleasure splits shares into a "Business" check (always
// present, even when empty) and a "Pleasure" check created only when at
// least one qualifying share exists.
func (s *Session) partitionBusinessPleasure(shares []Share) []Check {
	var business, pleasure []Share
	for _, sh := range shares {
		if pleasureCategories[sh.Category] {
			pleasure = append(pleasure, sh)
		} else {
			business = append(business, sh)
		}
	}
	checks := []Check{{
		ID:     uuid.NewString(),
		Label:  "Business",
		Color:  checkPalette[0],
		Shares: business,
	}}
	if len(pleasure) > 0 {
		checks = append(checks, Check{
			ID:     uuid.NewString(),
			Label:  "Pleasure",
			Color:  checkPalette[1],
			Shares: pleasure,
		})
	}
	return checks
}

// singleCheck collapses all shares into one "Check 1".  The label counter
// restarts at 1 because the collapse begins a fresh numbering epoch.
func (s *Session) singleCheck(shares []Share) Check {
	s.checkCounter = 1
	return Check{
		ID:     uuid.NewString(),
		Label:  "Check 1",
		Color:  checkPalette[0],
		Shares: shares,
	}
}

// findShare locates a share by id, returning its check and share indexes,
// or (-1, -1) when absent.
func (s *Session) findShare(id string) (int, int) {
	for ci := range s.checks {
		for si := range s.checks[ci].Shares {
			if s.checks[ci].Shares[si].ID == id {
				return ci, si
			}
		}
	}
	return -1, -1
}

// findCheck locates a check by id, returning its index or -1.
func (s *Session) findCheck(id string) int {
	for i := range s.checks {
		if s.checks[i].ID == id {
			return i
		}
	}
	return -1
}

// copyChecks produces a structural deep copy of a check list.
func copyChecks(checks []Check) []Check {
	out := make([]Check, len(checks))
	for i, c := range checks {
		cc := c
		if c.SeatNumber != nil {
			seat := *c.SeatNumber
			cc.SeatNumber = &seat
		}
		cc.Shares = make([]Share, len(c.Shares))
		for j, sh := range c.Shares {
			cs := sh
			if sh.SeatNumber != nil {
				seat := *sh.SeatNumber
				cs.SeatNumber = &seat
			}
			cc.Shares[j] = cs
		}
		out[i] = cc
	}
	return out
}
