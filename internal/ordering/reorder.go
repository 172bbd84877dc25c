package ordering

import (
	"fmt"
	"sort"
)

// ReorderError describes why a bulk reposition was rejected. Missing and
// Extra name the ids that differ from the current sibling set.
type ReorderError struct {
	Reason     string `json:"reason"`
	Missing    []uint `json:"missing_ids,omitempty"`
	Extra      []uint `json:"extra_ids,omitempty"`
	Duplicates []uint `json:"duplicate_ids,omitempty"`
	BadOrders  []int  `json:"invalid_orders,omitempty"`
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("invalid reorder: %s", e.Reason)
}

// ValidateReorder checks a bulk reposition against the current siblings and
// returns only the items whose order changes. Submitted must name every
// existing sibling once, with orders forming a permutation of 1..N.
func ValidateReorder(existing, submitted []Item) ([]Item, error) {
	current := make(map[uint]int, len(existing))
	for _, it := range existing {
		current[it.ID] = it.Order
	}

	seen := make(map[uint]struct{}, len(submitted))
	var extra, dups []uint
	for _, it := range submitted {
		if _, dup := seen[it.ID]; dup {
			dups = append(dups, it.ID)
			continue
		}
		seen[it.ID] = struct{}{}
		if _, ok := current[it.ID]; !ok {
			extra = append(extra, it.ID)
		}
	}

	var missing []uint
	for _, it := range existing {
		if _, ok := seen[it.ID]; !ok {
			missing = append(missing, it.ID)
		}
	}

	if len(dups) > 0 {
		return nil, &ReorderError{Reason: "ids must not repeat", Duplicates: sortedIDs(dups)}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return nil, &ReorderError{
			Reason:  "submitted ids must match the existing set exactly",
			Missing: sortedIDs(missing),
			Extra:   sortedIDs(extra),
		}
	}

	var bad []int
	for _, it := range submitted {
		if it.Order < 1 {
			bad = append(bad, it.Order)
		}
	}
	if len(bad) > 0 {
		return nil, &ReorderError{Reason: "orders must be positive integers", BadOrders: bad}
	}

	if !Contiguous(submitted) {
		return nil, &ReorderError{
			Reason:    fmt.Sprintf("orders must be a permutation of 1..%d", len(submitted)),
			BadOrders: outOfRange(submitted),
		}
	}

	var changed []Item
	for _, it := range submitted {
		if current[it.ID] != it.Order {
			changed = append(changed, it)
		}
	}
	return changed, nil
}

func sortedIDs(ids []uint) []uint {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// outOfRange lists orders above N or used more than once.
func outOfRange(items []Item) []int {
	count := make(map[int]int, len(items))
	for _, it := range items {
		count[it.Order]++
	}
	var bad []int
	for order, n := range count {
		if order > len(items) || n > 1 {
			bad = append(bad, order)
		}
	}
	sort.Ints(bad)
	return bad
}
