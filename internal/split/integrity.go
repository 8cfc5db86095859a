package split

import (
	"fmt"
	"math"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Report is the result of an integrity check.  Issues are human-readable
// diagnostics meant to be surfaced verbatim to staff; commit must be
// blocked while OK is false.
type Report struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
}

// CheckIntegrity validates the session against its source item set.  It is
// a pure function of session state and verifies three things: every source
// item is still covered by at least one share, the sum over all checks
// matches the original total within Tolerance, and each split group still
// sums to its originating item's extended amount.
func CheckIntegrity(s *Session) Report {
	issues := []string{}

	// Coverage: every original item id must appear in at least one check.
	covered := map[string]bool{}
	for _, c := range s.Checks() {
		for _, sh := range c.Shares {
			covered[sh.OriginalItemID] = true
		}
	}
	for _, it := range s.Items() {
		if !covered[it.ID] {
			issues = append(issues, fmt.Sprintf("item %s (%s) is missing from every check", it.ID, it.Name))
		}
	}

	// Global conservation: split total must match the original total.
	splitTotal := s.SplitTotal()
	if math.Abs(splitTotal-s.OriginalTotal()) > Tolerance {
		issues = append(issues, fmt.Sprintf(
			"split total $%.2f does not match order total $%.2f", splitTotal, s.OriginalTotal()))
	}

	// Per-group conservation: each split group must sum to the extended
	// amount of the item it descends from.
	groupSums := map[SplitGroupID]float64{}
	groupItem := map[SplitGroupID]string{}
	for _, c := range s.Checks() {
		for _, sh := range c.Shares {
			if sh.SplitGroup == "" {
				continue
			}
			groupSums[sh.SplitGroup] += sh.Extended()
			groupItem[sh.SplitGroup] = sh.OriginalItemID
		}
	}
	itemsByID := map[string]model.OrderItem{}
	for _, it := range s.Items() {
		itemsByID[it.ID] = it
	}
	for group, sum := range groupSums {
		it, ok := itemsByID[groupItem[group]]
		if !ok {
			issues = append(issues, fmt.Sprintf(
				"split group %s references unknown item %s", group, groupItem[group]))
			continue
		}
		want := RoundToCents(it.ExtendedAmount())
		if math.Abs(RoundToCents(sum)-want) > Tolerance {
			issues = append(issues, fmt.Sprintf(
				"split parts of item %s (%s) sum to $%.2f, expected $%.2f",
				it.ID, it.Name, RoundToCents(sum), want))
		}
	}

	return Report{OK: len(issues) == 0, Issues: issues}
}
