package split

import (
	"math"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func TestBuildAssignmentsWholeItemsOnly(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
		testItem("i3", seat(2), 6, 1),
	}
	s := NewSession(7, items)
	s.SplitShare(shareOfItem(s, "i2"), 2) // i2 becomes fractional

	got := BuildAssignments(s)
	if len(got) != 2 {
		t.Fatalf("assignment count = %d, want 2: %+v", len(got), got)
	}
	if got[0].CheckIndex != 1 || len(got[0].ItemIDs) != 1 || got[0].ItemIDs[0] != "i1" {
		t.Errorf("first assignment = %+v", got[0])
	}
	if got[1].CheckIndex != 2 || len(got[1].ItemIDs) != 1 || got[1].ItemIDs[0] != "i3" {
		t.Errorf("second assignment = %+v", got[1])
	}
}

func TestBuildAssignmentsOmitsEmptyChecks(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)

	// Empty the first check by moving its share away.
	s.SelectShare(shareOfItem(s, "i1"))
	s.MoveSelectedTo(s.Checks()[1].ID)

	got := BuildAssignments(s)
	if len(got) != 1 {
		t.Fatalf("assignment count = %d, want 1", len(got))
	}
	if got[0].CheckIndex != 2 {
		t.Errorf("check index = %d, want 2 (1-based, empty check not renumbered away)", got[0].CheckIndex)
	}
	if len(got[0].ItemIDs) != 2 {
		t.Errorf("item ids = %v", got[0].ItemIDs)
	}
}

func TestBuildSplitItemsFractions(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)
	s.SplitShare(shareOfItem(s, "i2"), 3)

	// Move one fractional part onto a new check.
	parts := s.Checks()[1].Shares
	s.SelectShare(parts[0].ID)
	s.MoveSelectedToNewCheck()

	got := BuildSplitItems(s)
	if len(got) != 1 {
		t.Fatalf("split item count = %d, want 1", len(got))
	}
	si := got[0]
	if si.OriginalItemID != "i2" {
		t.Errorf("original item = %q", si.OriginalItemID)
	}
	if len(si.Fractions) != 3 {
		t.Fatalf("fraction count = %d, want 3", len(si.Fractions))
	}
	var sum float64
	seen := map[int]int{}
	for _, f := range si.Fractions {
		if f.Fraction <= 0 || f.Fraction > 1 {
			t.Errorf("fraction %v out of (0,1]", f.Fraction)
		}
		if f.CheckIndex < 1 {
			t.Errorf("check index %d not 1-based", f.CheckIndex)
		}
		sum += f.Fraction
		seen[f.CheckIndex]++
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("fractions sum to %v, want 1.0", sum)
	}
	// Two parts remain on check 2, one landed on the new check 3.
	if seen[2] != 2 || seen[3] != 1 {
		t.Errorf("fraction placement = %v", seen)
	}
}

func TestBuildSplitItemsEmptyWithoutSplits(t *testing.T) {
	items := []model.OrderItem{testItem("i1", seat(1), 10, 1)}
	s := NewSession(7, items)
	if got := BuildSplitItems(s); len(got) != 0 {
		t.Errorf("unexpected split items: %+v", got)
	}
}
