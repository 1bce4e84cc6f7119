package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(name string, price int64, stock int) Product {
	return Product{ID: uuid.New(), Code: "P-" + name, Name: name, Price: price, Stock: stock}
}

func TestCartAddCreatesAndIncrements(t *testing.T) {
	cart := NewCart()
	p := testProduct("Kopi", 10000, 5)

	require.NoError(t, cart.Add(p))
	require.NoError(t, cart.Add(p))

	lines := cart.Lines()
	require.Len(t, lines, 1, "same product must never produce a second line")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(10000), lines[0].UnitPrice)
}

func TestCartAddRespectsStockCeiling(t *testing.T) {
	cart := NewCart()
	p := testProduct("Terigu", 12000, 1)

	require.NoError(t, cart.Add(p))
	err := cart.Add(p)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, cart.Quantity(p.ID), "failed add must leave the cart unchanged")
}

func TestCartAddOutOfStockProduct(t *testing.T) {
	cart := NewCart()
	p := testProduct("Minyak", 18000, 0)

	assert.ErrorIs(t, cart.Add(p), ErrInsufficientStock)
	assert.Equal(t, 0, cart.Len())
}

func TestCartAdjust(t *testing.T) {
	p := testProduct("Beras", 65000, 4)

	tests := []struct {
		name    string
		delta   int
		wantErr error
		wantQty int
	}{
		{name: "increment", delta: 1, wantQty: 3},
		{name: "decrement", delta: -1, wantQty: 1},
		{name: "jump within stock", delta: 2, wantQty: 4},
		{name: "to zero is a no-op", delta: -2, wantQty: 2},
		{name: "below zero is a no-op", delta: -10, wantQty: 2},
		{name: "beyond stock", delta: 3, wantErr: ErrInsufficientStock, wantQty: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			require.NoError(t, cart.Add(p))
			require.NoError(t, cart.Adjust(p.ID, 1, p.Stock)) // start at qty 2

			err := cart.Adjust(p.ID, tt.delta, p.Stock)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantQty, cart.Quantity(p.ID))
		})
	}
}

func TestCartAdjustUnknownProduct(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.Adjust(uuid.New(), 1, 10), ErrUnknownProduct)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	a := testProduct("A", 1000, 9)
	b := testProduct("B", 2000, 9)
	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(b))

	cart.Remove(a.ID)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, b.ID, cart.Lines()[0].ProductID)

	cart.Remove(a.ID) // already gone, no-op
	assert.Equal(t, 1, cart.Len())

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	products := []Product{
		testProduct("Zebra Cake", 5000, 9),
		testProduct("Aqua", 3000, 9),
		testProduct("Mie Instan", 3500, 9),
	}
	for _, p := range products {
		require.NoError(t, cart.Add(p))
	}
	// Incrementing an early line must not reorder it.
	require.NoError(t, cart.Add(products[0]))

	lines := cart.Lines()
	require.Len(t, lines, 3)
	for i, p := range products {
		assert.Equal(t, p.ID, lines[i].ProductID)
	}
	assert.Equal(t, 2, lines[0].Quantity)
}
