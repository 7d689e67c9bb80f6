package services

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart() (*CartStore, *Notifier, *FailMode) {
	notifier := NewNotifier(DefaultNotificationTTL, nil)
	faults := NewFailMode(false)
	return NewCartStore(notifier, faults, nil), notifier, faults
}

func TestCartStore_Totals(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart()

	require.NoError(t, cart.Add(ctx, product(1, "Backpack", "20"), 1))

	snap := cart.Snapshot()
	assert.Equal(t, "20.00", snap.Subtotal.StringFixed(2))
	assert.Equal(t, "5.99", snap.Totals.Shipping.StringFixed(2))
	assert.Equal(t, "1.60", snap.Totals.Tax.StringFixed(2))
	assert.Equal(t, "27.59", snap.Totals.Total.StringFixed(2))

	require.NoError(t, cart.Add(ctx, product(1, "Backpack", "20"), 2))

	snap = cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 3, snap.ItemCount)
	assert.Equal(t, "60.00", snap.Subtotal.StringFixed(2))
	assert.True(t, snap.Totals.Shipping.IsZero())
	assert.Equal(t, "4.80", snap.Totals.Tax.StringFixed(2))
	assert.Equal(t, "64.80", snap.Totals.Total.StringFixed(2))
}

func TestCartStore_AddThenRemove(t *testing.T) {
	cart, _, _ := newTestCart()

	require.NoError(t, cart.Add(context.Background(), product(7, "Mug", "10.00"), 2))
	assert.Equal(t, "20.00", cart.Total().StringFixed(2))

	cart.Remove(7)
	assert.True(t, cart.Total().IsZero())
	assert.True(t, cart.IsEmpty())
}

func TestCartStore_Add(t *testing.T) {
	t.Run("QuantityBelowOneCountsAsOne", func(t *testing.T) {
		cart, _, _ := newTestCart()
		require.NoError(t, cart.Add(context.Background(), product(1, "Hat", "5"), 0))

		item, ok := cart.Item(1)
		require.True(t, ok)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("SnapshotsProductFields", func(t *testing.T) {
		cart, _, _ := newTestCart()
		p := product(3, "Lamp", "12.50")
		require.NoError(t, cart.Add(context.Background(), p, 1))

		item, ok := cart.Item(3)
		require.True(t, ok)
		assert.Equal(t, p.Title, item.Title)
		assert.True(t, p.Price.Equal(item.UnitPrice))
		assert.Equal(t, p.Image, item.Image)
	})

	t.Run("CapsAtStock", func(t *testing.T) {
		cart, _, _ := newTestCart()
		p := product(1, "Hat", "5")
		require.NoError(t, cart.Add(context.Background(), p, math.MaxInt))
		require.NoError(t, cart.Add(context.Background(), p, 1))

		item, ok := cart.Item(1)
		require.True(t, ok)
		assert.Equal(t, p.Stock, item.Quantity)
		assert.Equal(t, "100.00", cart.Total().StringFixed(2))
	})

	t.Run("CapsAtMaxLineQuantity", func(t *testing.T) {
		cart, _, _ := newTestCart()
		p := product(1, "Hat", "5")
		p.Stock = 0
		for i := 0; i < 3; i++ {
			require.NoError(t, cart.Add(context.Background(), p, math.MaxInt-1))
		}

		item, _ := cart.Item(1)
		assert.Equal(t, models.MaxLineQuantity, item.Quantity)
		assert.True(t, cart.Total().IsPositive())
	})

	t.Run("Notifies", func(t *testing.T) {
		cart, notifier, _ := newTestCart()
		require.NoError(t, cart.Add(context.Background(), product(1, "Hat", "5"), 2))

		active := notifier.Active()
		require.Len(t, active, 1)
		assert.Equal(t, models.SeveritySuccess, active[0].Severity)
		assert.Equal(t, "Hat added to cart (2 items)", active[0].Message)
	})

	t.Run("FailMode", func(t *testing.T) {
		cart, notifier, faults := newTestCart()
		faults.Set(true)

		err := cart.Add(context.Background(), product(1, "Hat", "5"), 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSimulatedFailure))
		assert.True(t, cart.IsEmpty())

		active := notifier.Active()
		require.Len(t, active, 1)
		assert.Equal(t, models.SeverityError, active[0].Severity)
		assert.Equal(t, "Failed to add item to cart. Please try again.", active[0].Message)
	})
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("SetsQuantity", func(t *testing.T) {
		cart, _, _ := newTestCart()
		require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 1))

		cart.UpdateQuantity(1, 4)
		item, _ := cart.Item(1)
		assert.Equal(t, 4, item.Quantity)
	})

	t.Run("ZeroRemoves", func(t *testing.T) {
		cart, _, _ := newTestCart()
		require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 1))
		require.NoError(t, cart.Add(ctx, product(2, "Scarf", "8"), 1))

		cart.UpdateQuantity(1, 0)
		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].ProductID)
	})

	t.Run("UnknownIDIgnored", func(t *testing.T) {
		cart, _, _ := newTestCart()
		require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 1))

		cart.UpdateQuantity(99, 3)
		assert.Equal(t, 1, cart.Count())
	})

	t.Run("CapsAtMaxLineQuantity", func(t *testing.T) {
		cart, _, _ := newTestCart()
		require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 1))

		cart.UpdateQuantity(1, math.MaxInt)
		item, _ := cart.Item(1)
		assert.Equal(t, models.MaxLineQuantity, item.Quantity)
	})
}

func TestCartStore_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart()

	require.NoError(t, cart.Add(ctx, product(3, "C", "1"), 1))
	require.NoError(t, cart.Add(ctx, product(1, "A", "1"), 1))
	require.NoError(t, cart.Add(ctx, product(2, "B", "1"), 1))
	require.NoError(t, cart.Add(ctx, product(3, "C", "1"), 1))

	var ids []int
	for _, item := range cart.Items() {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestCartStore_RandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))
	cart, _, _ := newTestCart()

	for i := 0; i < 500; i++ {
		id := rng.IntN(6) + 1
		switch rng.IntN(3) {
		case 0:
			qty := rng.IntN(4)
			if rng.IntN(10) == 0 {
				qty = math.MaxInt - rng.IntN(3)
			}
			require.NoError(t, cart.Add(ctx, product(id, "P", "3.25"), qty))
		case 1:
			cart.Remove(id)
		case 2:
			cart.UpdateQuantity(id, rng.IntN(5)-1)
		}

		seen := make(map[int]bool)
		expected := money("0")
		for _, item := range cart.Items() {
			assert.False(t, seen[item.ProductID], "duplicate product %d", item.ProductID)
			assert.GreaterOrEqual(t, item.Quantity, 1)
			assert.LessOrEqual(t, item.Quantity, 20)
			seen[item.ProductID] = true
			expected = expected.Add(item.LineTotal())
		}
		require.True(t, expected.Equal(cart.Total()))
	}
}

func TestCartStore_RemoveOrdered(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart()
	require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 2))
	require.NoError(t, cart.Add(ctx, product(2, "Scarf", "8"), 1))
	ordered := cart.Items()

	require.NoError(t, cart.Add(ctx, product(1, "Hat", "5"), 3))
	require.NoError(t, cart.Add(ctx, product(3, "Mug", "4"), 1))
	cart.Remove(2)

	cart.RemoveOrdered(ordered)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, items[1].ProductID)
	assert.Equal(t, "19.00", cart.Total().StringFixed(2))
}

func TestCartStore_Clear(t *testing.T) {
	cart, _, _ := newTestCart()
	require.NoError(t, cart.Add(context.Background(), product(1, "Hat", "5"), 3))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.Count())
	assert.NotNil(t, cart.Snapshot().Items)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		shipping string
		tax      string
		total    string
	}{
		{name: "Empty", subtotal: "0", shipping: "5.99", tax: "0.00", total: "5.99"},
		{name: "AtThreshold", subtotal: "50", shipping: "5.99", tax: "4.00", total: "59.99"},
		{name: "AboveThreshold", subtotal: "50.01", shipping: "0.00", tax: "4.00", total: "54.01"},
		{name: "TaxRounded", subtotal: "19.99", shipping: "5.99", tax: "1.60", total: "27.58"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(money(tt.subtotal))
			assert.Equal(t, tt.shipping, totals.Shipping.StringFixed(2))
			assert.Equal(t, tt.tax, totals.Tax.StringFixed(2))
			assert.Equal(t, tt.total, totals.Total.StringFixed(2))
		})
	}
}
