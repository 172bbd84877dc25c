package ordering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orders(items []Item) map[uint]int {
	out := make(map[uint]int, len(items))
	for _, it := range items {
		out[it.ID] = it.Order
	}
	return out
}

func threeSiblings() []Item {
	return []Item{{ID: 10, Order: 1}, {ID: 20, Order: 2}, {ID: 30, Order: 3}}
}

func TestAppend(t *testing.T) {
	empty := New(nil)
	assert.Equal(t, 1, empty.Append(1).Position)

	s := New(threeSiblings())
	plan := s.Append(40)
	assert.Equal(t, 4, plan.Position)
	assert.False(t, plan.Changed())
	assert.True(t, Contiguous(s.Items()))
}

func TestInsertAt(t *testing.T) {
	s := New(threeSiblings())
	plan := s.InsertAt(40, 2)

	assert.Equal(t, 2, plan.Position)
	require.Len(t, plan.Shifts, 1)
	assert.Equal(t, Shift{From: 2, To: 3, Delta: 1}, plan.Shifts[0])
	assert.Equal(t, map[uint]int{10: 1, 40: 2, 20: 3, 30: 4}, orders(s.Items()))
}

func TestInsertAt_FreeSlotDoesNotShift(t *testing.T) {
	s := New(threeSiblings())
	plan := s.InsertAt(40, 4)
	assert.Equal(t, 4, plan.Position)
	assert.False(t, plan.Changed())
}

func TestInsertAt_ClampsBeyondEnd(t *testing.T) {
	s := New(threeSiblings())
	plan := s.InsertAt(40, 99)
	assert.Equal(t, 4, plan.Position)
	assert.False(t, plan.Changed())

	plan = s.InsertAt(50, -3)
	assert.Equal(t, 1, plan.Position)
	assert.True(t, Contiguous(s.Items()))
}

func TestMove(t *testing.T) {
	t.Run("down", func(t *testing.T) {
		s := New(threeSiblings())
		plan, err := s.Move(10, 3)
		require.NoError(t, err)
		assert.Equal(t, []Shift{{From: 2, To: 3, Delta: -1, ExcludeID: 10}}, plan.Shifts)
		assert.Equal(t, map[uint]int{20: 1, 30: 2, 10: 3}, orders(s.Items()))
	})

	t.Run("up", func(t *testing.T) {
		s := New(threeSiblings())
		plan, err := s.Move(30, 1)
		require.NoError(t, err)
		assert.Equal(t, []Shift{{From: 1, To: 2, Delta: 1, ExcludeID: 30}}, plan.Shifts)
		assert.Equal(t, map[uint]int{30: 1, 10: 2, 20: 3}, orders(s.Items()))
	})

	t.Run("same position is a no-op", func(t *testing.T) {
		s := New(threeSiblings())
		plan, err := s.Move(20, 2)
		require.NoError(t, err)
		assert.False(t, plan.Changed())
		assert.Equal(t, orders(threeSiblings()), orders(s.Items()))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := New(threeSiblings()).Move(99, 1)
		assert.ErrorIs(t, err, ErrUnknownItem)
	})
}

func TestDelete(t *testing.T) {
	s := New(threeSiblings())
	plan, err := s.Delete(10)
	require.NoError(t, err)
	assert.Equal(t, []Shift{{From: 2, To: 3, Delta: -1}}, plan.Shifts)
	assert.Equal(t, map[uint]int{20: 1, 30: 2}, orders(s.Items()))

	plan, err = s.Delete(30)
	require.NoError(t, err)
	assert.False(t, plan.Changed())
	assert.Equal(t, map[uint]int{20: 1}, orders(s.Items()))
}

func TestContiguityHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(nil)
	nextID := uint(1)

	for step := 0; step < 2000; step++ {
		items := s.Items()
		switch op := rng.Intn(4); {
		case op == 0 || len(items) == 0:
			s.Append(nextID)
			nextID++
		case op == 1:
			s.InsertAt(nextID, rng.Intn(len(items)+3)-1)
			nextID++
		case op == 2:
			target := items[rng.Intn(len(items))]
			_, err := s.Move(target.ID, rng.Intn(len(items)+3)-1)
			require.NoError(t, err)
		default:
			target := items[rng.Intn(len(items))]
			_, err := s.Delete(target.ID)
			require.NoError(t, err)
		}

		require.True(t, Contiguous(s.Items()), "gap or duplicate after step %d: %v", step, s.Items())
	}
}

func TestContiguous(t *testing.T) {
	assert.True(t, Contiguous(nil))
	assert.True(t, Contiguous([]Item{{ID: 1, Order: 2}, {ID: 2, Order: 1}}))
	assert.False(t, Contiguous([]Item{{ID: 1, Order: 1}, {ID: 2, Order: 3}}))
	assert.False(t, Contiguous([]Item{{ID: 1, Order: 1}, {ID: 2, Order: 1}}))
	assert.False(t, Contiguous([]Item{{ID: 1, Order: 0}}))
}
