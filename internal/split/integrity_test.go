package split

import (
	"strings"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func TestCheckIntegrityCleanSession(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)
	s.SplitShare(shareOfItem(s, "i2"), 3)
	s.SelectShare(shareOfItem(s, "i1"))
	s.MoveSelectedToNewCheck()

	rep := CheckIntegrity(s)
	if !rep.OK {
		t.Fatalf("expected clean report, got %v", rep.Issues)
	}
	if len(rep.Issues) != 0 {
		t.Errorf("issues = %v, want empty", rep.Issues)
	}
}

func TestCheckIntegrityMissingItem(t *testing.T) {
	items := []model.OrderItem{
		testItem("i1", seat(1), 10, 1),
		testItem("i2", seat(2), 15, 1),
	}
	s := NewSession(7, items)

	// Drop every share of i2 behind the session's back.
	for ci := range s.checks {
		kept := s.checks[ci].Shares[:0]
		for _, sh := range s.checks[ci].Shares {
			if sh.OriginalItemID != "i2" {
				kept = append(kept, sh)
			}
		}
		s.checks[ci].Shares = kept
		s.checks[ci].recalc()
	}

	rep := CheckIntegrity(s)
	if rep.OK {
		t.Fatal("expected failing report")
	}
	foundMissing, foundTotal := false, false
	for _, issue := range rep.Issues {
		if strings.Contains(issue, "i2") && strings.Contains(issue, "missing") {
			foundMissing = true
		}
		if strings.Contains(issue, "does not match order total") {
			foundTotal = true
		}
	}
	if !foundMissing {
		t.Errorf("no missing-item issue in %v", rep.Issues)
	}
	if !foundTotal {
		t.Errorf("no conservation issue in %v", rep.Issues)
	}
}

func TestCheckIntegrityGroupDeviation(t *testing.T) {
	items := []model.OrderItem{testItem("i1", seat(1), 10, 1)}
	s := NewSessionWithMode(7, items, ModeCustom)
	s.SplitShare(shareOfItem(s, "i1"), 2)

	// Corrupt one fractional share by a dollar.
	s.checks[0].Shares[0].Amount += 1
	s.checks[0].recalc()

	rep := CheckIntegrity(s)
	if rep.OK {
		t.Fatal("expected failing report")
	}
	found := false
	for _, issue := range rep.Issues {
		if strings.Contains(issue, "split parts of item i1") {
			found = true
		}
	}
	if !found {
		t.Errorf("no per-group issue in %v", rep.Issues)
	}
}

func TestCheckIntegrityToleratesFloatNoise(t *testing.T) {
	// Amounts chosen to exercise binary-float rounding.
	items := []model.OrderItem{
		testItem("i1", seat(1), 0.1, 3),
		testItem("i2", seat(2), 0.07, 7),
	}
	s := NewSession(7, items)
	s.SplitShare(shareOfItem(s, "i2"), 3)

	if rep := CheckIntegrity(s); !rep.OK {
		t.Errorf("float noise tripped the checker: %v", rep.Issues)
	}
}
