// Package ordering maintains contiguous 1..N positions over a set of siblings,
// such as the quizzes of a section or the questions of a quiz.
//
// A Sequencer works on an in-memory arena of the current siblings and emits
// range shifts; callers apply those shifts and the row write in one
// transaction.
package ordering

import (
	"errors"
	"sort"
)

var ErrUnknownItem = errors.New("item is not part of the sibling set")

// Item is one sibling and its position.
type Item struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// Shift adds Delta to the order of every sibling whose order lies in
// [From, To], except the sibling ExcludeID.
type Shift struct {
	From      int
	To        int
	Delta     int
	ExcludeID uint
}

// Plan is the outcome of one sequencing operation.
type Plan struct {
	Position int
	Shifts   []Shift
}

// Changed reports whether applying the plan writes anything besides the item itself.
func (p Plan) Changed() bool {
	return len(p.Shifts) > 0
}

type Sequencer struct {
	items []Item
}

// New builds a sequencer over a copy of items.
func New(items []Item) *Sequencer {
	arena := make([]Item, len(items))
	copy(arena, items)
	return &Sequencer{items: arena}
}

// Items returns the current arena sorted by order, then id.
func (s *Sequencer) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Sequencer) Len() int {
	return len(s.items)
}

// Max returns the highest order in use, or 0 for an empty set.
func (s *Sequencer) Max() int {
	highest := 0
	for _, it := range s.items {
		if it.Order > highest {
			highest = it.Order
		}
	}
	return highest
}

// Append places a new item after the last sibling.
func (s *Sequencer) Append(id uint) Plan {
	pos := s.Max() + 1
	s.items = append(s.items, Item{ID: id, Order: pos})
	return Plan{Position: pos}
}

// InsertAt places a new item at position k. Siblings at k and above move
// down one slot only when k is already taken. k is clamped to [1, max+1].
func (s *Sequencer) InsertAt(id uint, k int) Plan {
	last := s.Max()
	k = clamp(k, 1, last+1)

	plan := Plan{Position: k}
	if s.occupied(k) {
		shift := Shift{From: k, To: last, Delta: 1}
		s.apply(shift)
		plan.Shifts = append(plan.Shifts, shift)
	}

	s.items = append(s.items, Item{ID: id, Order: k})
	return plan
}

// Move repositions an existing item to position to, clamped to [1, N].
func (s *Sequencer) Move(id uint, to int) (Plan, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Plan{}, ErrUnknownItem
	}

	from := s.items[idx].Order
	to = clamp(to, 1, len(s.items))
	plan := Plan{Position: to}

	switch {
	case to > from:
		plan.Shifts = []Shift{{From: from + 1, To: to, Delta: -1, ExcludeID: id}}
	case to < from:
		plan.Shifts = []Shift{{From: to, To: from - 1, Delta: 1, ExcludeID: id}}
	default:
		return plan, nil
	}

	s.apply(plan.Shifts[0])
	s.items[idx].Order = to
	return plan, nil
}

// Delete removes an item and closes the gap it leaves.
func (s *Sequencer) Delete(id uint) (Plan, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Plan{}, ErrUnknownItem
	}

	removed := s.items[idx]
	last := s.Max()
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	plan := Plan{Position: removed.Order}
	if removed.Order < last {
		shift := Shift{From: removed.Order + 1, To: last, Delta: -1}
		s.apply(shift)
		plan.Shifts = append(plan.Shifts, shift)
	}
	return plan, nil
}

// Contiguous reports whether the orders of items are exactly 1..len(items).
func Contiguous(items []Item) bool {
	seen := make([]bool, len(items)+1)
	for _, it := range items {
		if it.Order < 1 || it.Order > len(items) || seen[it.Order] {
			return false
		}
		seen[it.Order] = true
	}
	return true
}

func (s *Sequencer) apply(shift Shift) {
	for i := range s.items {
		it := &s.items[i]
		if it.ID == shift.ExcludeID && shift.ExcludeID != 0 {
			continue
		}
		if it.Order >= shift.From && it.Order <= shift.To {
			it.Order += shift.Delta
		}
	}
}

func (s *Sequencer) occupied(pos int) bool {
	for _, it := range s.items {
		if it.Order == pos {
			return true
		}
	}
	return false
}

func (s *Sequencer) indexOf(id uint) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
