package split

import (
	"math"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func seat(n int) *int { return &n }

func testItem(id string, seatNum *int, price float64, qty int) model.OrderItem {
	now := time.Now().UTC()
	return model.OrderItem{
		ID:         id,
		SeatNumber: seatNum,
		Name:       "item " + id,
		UnitPrice:  price,
		Quantity:   qty,
		Category:   "food",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func firstShareID(s *Session) string {
	for _, c := range s.Checks() {
		if len(c.Shares) > 0 {
			return c.Shares[0].ID
		}
	}
	return ""
}

// shareOfItem returns the id of the first share descended from the item.
func shareOfItem(s *Session, itemID string) string {
	for _, c := range s.Checks() {
		for _, sh := range c.Shares {
			if sh.OriginalItemID == itemID {
				return sh.ID
			}
		}
	}
	return ""
}

func TestNewSessionAutoMode(t *testing.T) {
	tests := []struct {
		name  string
		items []model.OrderItem
		want  Mode
	}{
		{
			name: "two seats selects by_seat",
			items: []model.OrderItem{
				testItem("i1", seat(1), 10, 1),
				testItem("i2", seat(2), 15, 1),
			},
			want: ModeBySeat,
		},
		{
			name: "single seat selects custom",
			items: []model.OrderItem{
				testItem("i1", seat(1), 10, 1),
				testItem("i2", seat(1), 15, 1),
			},
			want: ModeCustom,
		},
		{
			name: "no seats selects custom",
			items: []model.OrderItem{
				testItem("i1", nil, 10, 1),
			},
			want: ModeCustom,
		},
		{
			name: "paid items do not count toward seat detection",
			items: []model.OrderItem{
				func() model.OrderItem { it := testItem("i1", seat(1), 10, 1); it.IsPaid = true; return it }(),
				testItem("i2", seat(2), 15, 1),
			},
			want: ModeCustom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(7, tt.items)
			if s.Mode() != tt.want {
				t.Errorf("mode = %v, want %v", s.Mode(), tt.want)
			}
		})
	}
}

func TestBySeatPartitionLayout(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(2), 15, 1),
		testItem("i2", seat(1), 10, 1),
		testItem("i3", nil, 4.5, 2),
	}
	s := NewSession(7, items)

	checks := s.Checks()
	if len(checks) != 3 {
		t.Fatalf("check count = %d, want 3", len(checks))
	}
	if checks[0].Label != "Seat 1" || checks[1].Label != "Seat 2" || checks[2].Label != "No Seat" {
		t.Errorf("labels = %q %q %q", checks[0].Label, checks[1].Label, checks[2].Label)
	}
	if checks[0].Subtotal != 10 || checks[1].Subtotal != 15 || checks[2].Subtotal != 9 {
		t.Errorf("subtotals = %v %v %v", checks[0].Subtotal, checks[1].Subtotal, checks[2].Subtotal)
	}
	if s.OriginalTotal() != 34 {
		t.Errorf("original total = %v, want 34", s.OriginalTotal())
	}
}

func TestSelectShareToggleAndPaidRefusal(t *testing.T) {
	paid := testItem("i1", seat(1), 10, 1)
	paid.IsPaid = true
	items := []model.OrderItem{paid, testItem("i2", seat(2), 15, 1)}
	s := NewSessionWithMode(7, items, ModeCustom)

	paidID := shareOfItem(s, "i1")
	s.SelectShare(paidID)
	if s.SelectedShareID() != "" {
		t.Errorf("paid share was selected")
	}

	free := shareOfItem(s, "i2")
	s.SelectShare(free)
	if s.SelectedShareID() != free {
		t.Errorf("selection = %q, want %q", s.SelectedShareID(), free)
	}
	s.SelectShare(free) // selecting again deselects
	if s.SelectedShareID() != "" {
		t.Errorf("re-select did not toggle off")
	}
}

func TestMoveSelectedBetweenChecks(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)

	id := shareOfItem(s, "i1")
	target := s.Checks()[1].ID
	s.SelectShare(id)
	s.MoveSelectedTo(target)

	if got := len(s.Checks()[0].Shares); got != 0 {
		t.Errorf("source still holds %d shares", got)
	}
	if got := len(s.Checks()[1].Shares); got != 2 {
		t.Errorf("target holds %d shares, want 2", got)
	}
	if s.Checks()[1].Subtotal != 25 {
		t.Errorf("target subtotal = %v, want 25", s.Checks()[1].Subtotal)
	}
	if s.SelectedShareID() != "" {
		t.Errorf("selection not cleared after move")
	}

	// Moving with no selection is a no-op.
	before := len(s.Checks()[1].Shares)
	s.MoveSelectedTo(s.Checks()[0].ID)
	if len(s.Checks()[1].Shares) != before {
		t.Errorf("move without selection mutated state")
	}
}

func TestMoveSelectedToNewCheck(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(1), 15, 1),
	}
	s := NewSession(7, items) // custom: one check

	id := shareOfItem(s, "i2")
	s.SelectShare(id)
	s.MoveSelectedToNewCheck()

	checks := s.Checks()
	if len(checks) != 2 {
		t.Fatalf("check count = %d, want 2", len(checks))
	}
	if checks[1].Label != "Check 2" {
		t.Errorf("new check label = %q, want Check 2", checks[1].Label)
	}
	if checks[1].Subtotal != 15 || checks[0].Subtotal != 10 {
		t.Errorf("subtotals = %v / %v", checks[0].Subtotal, checks[1].Subtotal)
	}
	if s.SplitTotal() != s.OriginalTotal() {
		t.Errorf("split total %v drifted from %v", s.SplitTotal(), s.OriginalTotal())
	}
}

func TestSplitShareExactness(t *testing.T) {
	tests := []struct {
		amount float64
		ways   int
		want   []float64
	}{
		{10.00, 3, []float64{3.34, 3.33, 3.33}},
		{10.00, 2, []float64{5.00, 5.00}},
		{0.01, 2, []float64{0.01, 0.00}},
		{9999.99, 7, nil}, // checked by sum only
		{25.37, 10, nil},
		{100.00, 6, nil},
	}
	for _, tt := range tests {
		items := []model.OrderItem{testItem("i1", seat(1), tt.amount, 1)}
		s := NewSessionWithMode(7, items, ModeCustom)
		id := shareOfItem(s, "i1")
		s.SplitShare(id, tt.ways)

		shares := s.Checks()[0].Shares
		if len(shares) != tt.ways {
			t.Fatalf("split %v by %d: %d shares", tt.amount, tt.ways, len(shares))
		}
		var sumCents int64
		for i, sh := range shares {
			sumCents += toCents(sh.Extended())
			if tt.want != nil && sh.Amount != tt.want[i] {
				t.Errorf("split %v by %d: share %d = %v, want %v", tt.amount, tt.ways, i, sh.Amount, tt.want[i])
			}
			if sh.Quantity != 1 {
				t.Errorf("fractional share quantity = %d, want 1", sh.Quantity)
			}
		}
		// Exact, not merely within tolerance.
		if sumCents != toCents(tt.amount) {
			t.Errorf("split %v by %d: parts sum to %d cents, want %d", tt.amount, tt.ways, sumCents, toCents(tt.amount))
		}
		group := shares[0].SplitGroup
		if group == "" {
			t.Errorf("split shares carry no group id")
		}
		for i, sh := range shares {
			if sh.SplitGroup != group {
				t.Errorf("share %d in different group", i)
			}
		}
		if shares[0].FractionLabel == "" || shares[len(shares)-1].FractionLabel == "" {
			t.Errorf("missing fraction labels")
		}
	}
}

func TestSplitSharePreconditions(t *testing.T) {
	paid := testItem("i1", seat(1), 10, 1)
	paid.IsPaid = true
	items := []model.OrderItem{paid, testItem("i2", seat(1), 15, 1)}
	s := NewSessionWithMode(7, items, ModeCustom)

	// ways < 2 is a no-op.
	s.SplitShare(shareOfItem(s, "i2"), 1)
	if got := len(s.Checks()[0].Shares); got != 2 {
		t.Errorf("ways=1 mutated shares: %d", got)
	}
	// paid shares cannot be split.
	s.SplitShare(shareOfItem(s, "i1"), 2)
	if got := len(s.Checks()[0].Shares); got != 2 {
		t.Errorf("paid share was split: %d shares", got)
	}
	// unknown ids are ignored.
	s.SplitShare("nope", 2)
	if got := len(s.Checks()[0].Shares); got != 2 {
		t.Errorf("unknown id mutated shares: %d", got)
	}
}

func TestResplitKeepsGroup(t *testing.T) {
	items := []model.OrderItem{testItem("i1", seat(1), 12, 1)}
	s := NewSessionWithMode(7, items, ModeCustom)

	s.SplitShare(shareOfItem(s, "i1"), 2)
	group := s.Checks()[0].Shares[0].SplitGroup
	s.SplitShare(s.Checks()[0].Shares[0].ID, 3)

	shares := s.Checks()[0].Shares
	if len(shares) != 4 {
		t.Fatalf("share count = %d, want 4", len(shares))
	}
	for i, sh := range shares {
		if sh.SplitGroup != group {
			t.Errorf("share %d left the original group", i)
		}
	}
	if rep := CheckIntegrity(s); !rep.OK {
		t.Errorf("re-split broke integrity: %v", rep.Issues)
	}
}

func TestApplyModeBusinessPleasure(t *testing.T) {
	liquor := testItem("i2", seat(1), 9, 1)
	liquor.Category = "liquor"
	items := []model.OrderItem{testItem("i1", seat(1), 12, 1), liquor}
	s := NewSessionWithMode(7, items, ModeCustom)

	s.ApplyMode(ModeBusinessPleasure)
	checks := s.Checks()
	if len(checks) != 2 || checks[0].Label != "Business" || checks[1].Label != "Pleasure" {
		t.Fatalf("unexpected partition: %+v", checks)
	}
	if checks[0].Subtotal != 12 || checks[1].Subtotal != 9 {
		t.Errorf("subtotals = %v / %v", checks[0].Subtotal, checks[1].Subtotal)
	}

	// Business check exists even when everything is pleasure.
	only := testItem("i1", seat(1), 9, 1)
	only.Category = "entertainment"
	s2 := NewSessionWithMode(7, []model.OrderItem{only}, ModeCustom)
	s2.ApplyMode(ModeBusinessPleasure)
	if len(s2.Checks()) != 2 {
		t.Fatalf("check count = %d, want 2", len(s2.Checks()))
	}
	if s2.Checks()[0].Label != "Business" || len(s2.Checks()[0].Shares) != 0 {
		t.Errorf("empty Business check missing")
	}
}

func TestApplyModeEvenIsDisplayOnly(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)
	before := len(s.Checks())

	s.ApplyMode(ModeEven)
	if s.Mode() != ModeEven {
		t.Errorf("mode = %v, want even", s.Mode())
	}
	if len(s.Checks()) != before {
		t.Errorf("even mode repartitioned checks")
	}
}

func TestApplyModeIdempotent(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(2), 15, 1),
		testItem("i2", seat(1), 10, 1),
		testItem("i3", nil, 5, 1),
	}
	s := NewSessionWithMode(7, items, ModeCustom)

	grouping := func() map[string][]string {
		g := map[string][]string{}
		for _, c := range s.Checks() {
			for _, sh := range c.Shares {
				g[c.Label] = append(g[c.Label], sh.OriginalItemID)
			}
		}
		return g
	}

	s.ApplyMode(ModeBySeat)
	first := grouping()
	s.ApplyMode(ModeBySeat)
	second := grouping()

	if len(first) != len(second) {
		t.Fatalf("grouping changed across repeated applies: %v vs %v", first, second)
	}
	for label, ids := range first {
		other := second[label]
		if len(other) != len(ids) {
			t.Fatalf("label %q changed: %v vs %v", label, ids, other)
		}
		for i := range ids {
			if ids[i] != other[i] {
				t.Errorf("label %q item %d: %v vs %v", label, i, ids[i], other[i])
			}
		}
	}
}

func TestResetRoundTrip(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)
	wantMode := s.Mode()
	wantLabels := []string{}
	for _, c := range s.Checks() {
		wantLabels = append(wantLabels, c.Label)
	}

	// Arbitrary operations.
	s.SelectShare(firstShareID(s))
	s.MoveSelectedToNewCheck()
	s.SplitShare(shareOfItem(s, "i2"), 3)
	s.ApplyMode(ModeCustom)
	s.SetWays(5)

	s.Reset()

	if s.Mode() != wantMode {
		t.Errorf("mode = %v, want %v", s.Mode(), wantMode)
	}
	if s.Ways() != DefaultWays {
		t.Errorf("ways = %d, want %d", s.Ways(), DefaultWays)
	}
	if s.SelectedShareID() != "" {
		t.Errorf("selection survived reset")
	}
	if len(s.Checks()) != len(wantLabels) {
		t.Fatalf("check count = %d, want %d", len(s.Checks()), len(wantLabels))
	}
	for i, c := range s.Checks() {
		if c.Label != wantLabels[i] {
			t.Errorf("check %d label = %q, want %q", i, c.Label, wantLabels[i])
		}
	}
	if s.SplitTotal() != s.OriginalTotal() {
		t.Errorf("totals diverged after reset: %v vs %v", s.SplitTotal(), s.OriginalTotal())
	}
}

// TestConservationAcrossOperationSequence drives a long mixed sequence of
// operations and asserts the split total never drifts from the original.
func TestConservationAcrossOperationSequence(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10.33, 2),
		testItem("i2", seat(2), 15.99, 1),
		testItem("i3", seat(3), 7.77, 3),
		testItem("i4", nil, 2.5, 1),
	}
	s := NewSession(7, items)

	assertConserved := func(step string) {
		t.Helper()
		if math.Abs(s.SplitTotal()-s.OriginalTotal()) > Tolerance {
			t.Fatalf("%s: split total %v vs original %v", step, s.SplitTotal(), s.OriginalTotal())
		}
	}

	assertConserved("construction")
	s.SplitShare(shareOfItem(s, "i2"), 3)
	assertConserved("split i2")
	s.SelectShare(shareOfItem(s, "i1"))
	s.MoveSelectedToNewCheck()
	assertConserved("move to new check")
	s.ApplyMode(ModeCustom)
	assertConserved("collapse to custom")
	s.SplitShare(shareOfItem(s, "i3"), 7)
	assertConserved("split i3")
	s.ApplyMode(ModeBySeat)
	assertConserved("repartition by seat")
	s.ApplyMode(ModeBusinessPleasure)
	assertConserved("repartition business/pleasure")

	if rep := CheckIntegrity(s); !rep.OK {
		t.Errorf("integrity issues after sequence: %v", rep.Issues)
	}
}

// TestScenarioFromSpec walks the two-seat scenario end to end: by-seat
// partition, a three-way split of the $15 item, then moving one part onto a
// fresh check, with the total pinned at $25.00 throughout.
func TestScenarioTwoSeatsThreeWaySplit(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)

	if s.Checks()[0].Label != "Seat 1" || s.Checks()[1].Label != "Seat 2" {
		t.Fatalf("unexpected labels %q %q", s.Checks()[0].Label, s.Checks()[1].Label)
	}
	if s.OriginalTotal() != 25 {
		t.Fatalf("original total = %v", s.OriginalTotal())
	}

	s.SplitShare(shareOfItem(s, "i2"), 3)
	parts := s.Checks()[1].Shares
	if len(parts) != 3 {
		t.Fatalf("part count = %d", len(parts))
	}
	for i, sh := range parts {
		if sh.Amount != 5 {
			t.Errorf("part %d = %v, want 5.00", i, sh.Amount)
		}
	}

	s.SelectShare(parts[0].ID)
	s.MoveSelectedToNewCheck()
	if s.SplitTotal() != 25 {
		t.Errorf("split total = %v, want exactly 25", s.SplitTotal())
	}
	if rep := CheckIntegrity(s); !rep.OK {
		t.Errorf("integrity issues: %v", rep.Issues)
	}
}
