package repository // repository persists committed split results as durable checks

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"

	"github.com/iliyamo/restaurant-pos/internal/split"
)

// ErrVersionConflict is returned when a split commit was built against a
// stale order version.  Two terminals splitting the same order race here;
// the loser re-opens the split screen against fresh state.
var ErrVersionConflict = errors.New("order was modified by another terminal")

// CheckRepo turns the engine's two payloads into durable child checks.
// This layer owns the mapping from positional check indexes to real ids;
// the engine never allocates durable identifiers.
type CheckRepo struct {
	db *sql.DB
}

// NewCheckRepo constructs a CheckRepo with the given DB handle.
func NewCheckRepo(db *sql.DB) *CheckRepo {
	return &CheckRepo{db: db}
}

// CommitSplit atomically persists a split session's output: it bumps the
// order's optimistic version, creates one check row per referenced check
// index, relocates whole items, and writes per-fraction rows for split
// items.  Returns the durable check ids in index order.
func (r *CheckRepo) CommitSplit(ctx context.Context, orderID, expectedVersion uint64, assignments []split.Assignment, splitItems []split.SplitItem) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Optimistic version check: reject commits built against stale state.
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND version = ?`, orderID, expectedVersion)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrVersionConflict
	}

	// One durable check per referenced positional index.
	indexes := referencedIndexes(assignments, splitItems)
	checkIDs := make(map[int]uint64, len(indexes))
	ordered := make([]uint64, 0, len(indexes))
	for _, idx := range indexes {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO checks (order_id, position) VALUES (?, ?)`, orderID, idx)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		checkIDs[idx] = uint64(id)
		ordered = append(ordered, uint64(id))
	}

	// Whole items move onto their check directly.
	for _, a := range assignments {
		for _, itemID := range a.ItemIDs {
			id, err := strconv.ParseUint(itemID, 10, 64)
			if err != nil {
				return nil, err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE order_items SET check_id = ? WHERE id = ? AND order_id = ?`,
				checkIDs[a.CheckIndex], id, orderID); err != nil {
				return nil, err
			}
		}
	}

	// Split items get one fraction row per check slice.
	for _, si := range splitItems {
		itemID, err := strconv.ParseUint(si.OriginalItemID, 10, 64)
		if err != nil {
			return nil, err
		}
		for _, f := range si.Fractions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO check_item_splits (check_id, order_item_id, fraction) VALUES (?, ?, ?)`,
				checkIDs[f.CheckIndex], itemID, f.Fraction); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ordered, nil
}

// referencedIndexes collects the sorted set of check indexes used by either
// payload.  Checks the engine left empty never become durable rows.
func referencedIndexes(assignments []split.Assignment, splitItems []split.SplitItem) []int {
	seen := map[int]struct{}{}
	for _, a := range assignments {
		seen[a.CheckIndex] = struct{}{}
	}
	for _, si := range splitItems {
		for _, f := range si.Fractions {
			seen[f.CheckIndex] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
