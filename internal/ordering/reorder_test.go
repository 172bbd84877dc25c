package ordering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireReorderError(t *testing.T, err error) *ReorderError {
	t.Helper()
	var re *ReorderError
	require.True(t, errors.As(err, &re), "expected *ReorderError, got %v", err)
	return re
}

func TestValidateReorder_Permutation(t *testing.T) {
	changed, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 3}, {ID: 20, Order: 1}, {ID: 30, Order: 2}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Item{{ID: 10, Order: 3}, {ID: 20, Order: 1}, {ID: 30, Order: 2}}, changed)
}

func TestValidateReorder_IdempotentWritesNothing(t *testing.T) {
	changed, err := ValidateReorder(threeSiblings(), threeSiblings())
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestValidateReorder_OnlyChangedItems(t *testing.T) {
	changed, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 1}, {ID: 20, Order: 3}, {ID: 30, Order: 2}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Item{{ID: 20, Order: 3}, {ID: 30, Order: 2}}, changed)
}

func TestValidateReorder_IDSetMismatch(t *testing.T) {
	_, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 1}, {ID: 99, Order: 2}})
	re := requireReorderError(t, err)
	assert.Equal(t, []uint{20, 30}, re.Missing)
	assert.Equal(t, []uint{99}, re.Extra)
}

func TestValidateReorder_Duplicates(t *testing.T) {
	_, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 1}, {ID: 10, Order: 2}, {ID: 20, Order: 2}, {ID: 30, Order: 3}})
	re := requireReorderError(t, err)
	assert.Equal(t, []uint{10}, re.Duplicates)
}

func TestValidateReorder_NonPositiveOrders(t *testing.T) {
	_, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 0}, {ID: 20, Order: -1}, {ID: 30, Order: 2}})
	re := requireReorderError(t, err)
	assert.Equal(t, "orders must be positive integers", re.Reason)
	assert.Equal(t, []int{0, -1}, re.BadOrders)
}

func TestValidateReorder_GapsAndCollisions(t *testing.T) {
	_, err := ValidateReorder(threeSiblings(), []Item{{ID: 10, Order: 1}, {ID: 20, Order: 1}, {ID: 30, Order: 5}})
	re := requireReorderError(t, err)
	assert.Equal(t, "orders must be a permutation of 1..3", re.Reason)
	assert.Equal(t, []int{1, 5}, re.BadOrders)
}
