package split

// Assignment tells the persistence layer to relocate whole items onto the
// check at the given 1-based position.  Only shares outside any split group
// qualify; checks contributing no whole items are omitted entirely.
type Assignment struct {
	CheckIndex int      `json:"check_index"`
	ItemIDs    []string `json:"item_ids"`
}

// Fraction is one slice of a split item's value bound to a check position.
type Fraction struct {
	CheckIndex int     `json:"check_index"`
	Fraction   float64 `json:"fraction"`
}

// SplitItem is the fractional distribution of one original item across
// checks.  Fractions always sum to 1.0 within floating tolerance.
type SplitItem struct {
	OriginalItemID string     `json:"original_item_id"`
	Fractions      []Fraction `json:"fractions"`
}

// BuildAssignments derives the whole-item relocation payload.  Together
// with BuildSplitItems it is the entire contract handed to the persistence
// layer; durable check identifiers are never allocated here.
func BuildAssignments(s *Session) []Assignment {
	var out []Assignment
	for i, c := range s.Checks() {
		var ids []string
		for _, sh := range c.Shares {
			if sh.SplitGroup == "" {
				ids = append(ids, sh.OriginalItemID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		out = append(out, Assignment{CheckIndex: i + 1, ItemIDs: ids})
	}
	return out
}

// BuildSplitItems derives the fractional payload.  For every split group
// with more than one surviving share, each share contributes
// extended / group total paired with the 1-based index of the check
// currently holding it.
func BuildSplitItems(s *Session) []SplitItem {
	type member struct {
		checkIndex int
		amount     float64
	}
	groupMembers := map[SplitGroupID][]member{}
	groupItem := map[SplitGroupID]string{}
	var order []SplitGroupID // first-seen order keeps output deterministic

	for i, c := range s.Checks() {
		for _, sh := range c.Shares {
			if sh.SplitGroup == "" {
				continue
			}
			if _, seen := groupMembers[sh.SplitGroup]; !seen {
				order = append(order, sh.SplitGroup)
				groupItem[sh.SplitGroup] = sh.OriginalItemID
			}
			groupMembers[sh.SplitGroup] = append(groupMembers[sh.SplitGroup], member{
				checkIndex: i + 1,
				amount:     sh.Extended(),
			})
		}
	}

	var out []SplitItem
	for _, group := range order {
		members := groupMembers[group]
		if len(members) < 2 {
			continue // a lone survivor is effectively a whole item again
		}
		var total float64
		for _, m := range members {
			total += m.amount
		}
		if total == 0 {
			continue
		}
		item := SplitItem{OriginalItemID: groupItem[group]}
		for _, m := range members {
			item.Fractions = append(item.Fractions, Fraction{
				CheckIndex: m.checkIndex,
				Fraction:   m.amount / total,
			})
		}
		out = append(out, item)
	}
	return out
}
