package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Total Tests
// ============================================================================

func TestTotal_SingleLine(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{UnitPrice: 2500, Quantity: 2, Subtotal: 5000},
		},
	}
	assert.Equal(t, int64(5000), c.Total())
}

func TestTotal_MultipleLines(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{UnitPrice: 1000, Quantity: 2, Subtotal: 2000},
			{UnitPrice: 500, Quantity: 3, Subtotal: 1500},
			{UnitPrice: 2500, Quantity: 1, Subtotal: 2500},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.Total())
}

func TestTotal_EmptyCart(t *testing.T) {
	c := &Cart{Lines: []CartLine{}}
	assert.Equal(t, int64(0), c.Total())
}

func TestTotal_NilLines(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Total())
}

// ============================================================================
// CartLine.Recalculate Tests
// ============================================================================

func TestRecalculate(t *testing.T) {
	line := CartLine{UnitPrice: 1990, Quantity: 3}
	line.Recalculate()
	assert.Equal(t, int64(5970), line.Subtotal)
}

func TestRecalculate_QuantityOne(t *testing.T) {
	line := CartLine{UnitPrice: 1990, Quantity: 1, Subtotal: 9999}
	line.Recalculate()
	assert.Equal(t, int64(1990), line.Subtotal)
}

// ============================================================================
// Cart.FindLine Tests
// ============================================================================

func TestFindLine_Found(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{ProductID: 1},
			{ProductID: 7},
		},
	}
	assert.Equal(t, 0, c.FindLine(1))
	assert.Equal(t, 1, c.FindLine(7))
}

func TestFindLine_NotFound(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{{ProductID: 1}},
	}
	assert.Equal(t, -1, c.FindLine(999))
}

func TestFindLine_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, -1, c.FindLine(1))
}

// ============================================================================
// Cart state Tests
// ============================================================================

func TestIsEmpty(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.IsEmpty())

	c.Lines = append(c.Lines, CartLine{ProductID: 1, Quantity: 1})
	assert.False(t, c.IsEmpty())
}

func TestItemCount_CountsLinesNotUnits(t *testing.T) {
	c := &Cart{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 1},
		},
	}
	assert.Equal(t, 2, c.ItemCount())
}
