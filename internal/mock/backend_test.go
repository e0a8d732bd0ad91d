package mock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/commerce"
	"storefront/internal/domain"
)

func add(variantID string, qty int) []commerce.LineInput {
	return []commerce.LineInput{{MerchandiseID: variantID, Quantity: qty}}
}

func requireConsistent(t *testing.T, cart *domain.Cart) {
	t.Helper()
	qty := 0
	subtotal := decimal.Zero
	for _, l := range cart.Items {
		require.Positive(t, l.Quantity, "line %s stored with non-positive quantity", l.ID)
		qty += l.Quantity
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	require.Equal(t, qty, cart.TotalQuantity)
	require.Equal(t, subtotal.StringFixed(2), decimal.NewFromFloat(cart.SubtotalAmount).StringFixed(2))
	require.Equal(t, cart.SubtotalAmount, cart.TotalAmount)
}

func TestGetCartStartsEmpty(t *testing.T) {
	b := New(nil, nil)
	cart, err := b.GetCart(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, CartID, cart.ID)
	assert.Equal(t, CheckoutURL, cart.CheckoutURL)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalQuantity)
	assert.Equal(t, "USD", cart.CurrencyCode)
}

func TestAddMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	b := New(nil, nil)

	_, err := b.AddLines(ctx, CartID, add("var1", 1))
	require.NoError(t, err)
	cart, err := b.AddLines(ctx, CartID, add("var1", 2))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "var1", cart.Items[0].VariantID)
	assert.Equal(t, 899.97, cart.SubtotalAmount)
	requireConsistent(t, cart)
}

func TestAddUnknownVariantFails(t *testing.T) {
	b := New(nil, nil)
	_, err := b.AddLines(context.Background(), CartID, add("nope", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	cart, _ := b.GetCart(context.Background(), CartID)
	assert.Empty(t, cart.Items)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	b := New(nil, nil)
	_, err := b.AddLines(context.Background(), CartID, add("var1", 0))
	var ue commerce.UserErrors
	require.ErrorAs(t, err, &ue)
}

func TestUpdateZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()

	viaUpdate := New(nil, nil)
	cart, err := viaUpdate.AddLines(ctx, CartID, add("var1", 2))
	require.NoError(t, err)
	_, err = viaUpdate.AddLines(ctx, CartID, add("var3", 1))
	require.NoError(t, err)
	updated, err := viaUpdate.UpdateLines(ctx, CartID, []commerce.LineUpdate{{ID: cart.Items[0].ID, Quantity: 0}})
	require.NoError(t, err)

	viaRemove := New(nil, nil)
	cart, err = viaRemove.AddLines(ctx, CartID, add("var1", 2))
	require.NoError(t, err)
	_, err = viaRemove.AddLines(ctx, CartID, add("var3", 1))
	require.NoError(t, err)
	removed, err := viaRemove.RemoveLines(ctx, CartID, []string{cart.Items[0].ID})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, removed.Items[0].VariantID, updated.Items[0].VariantID)
	assert.Equal(t, removed.TotalQuantity, updated.TotalQuantity)
	assert.Equal(t, removed.SubtotalAmount, updated.SubtotalAmount)
}

func TestUpdateUnknownLineIsIgnored(t *testing.T) {
	ctx := context.Background()
	b := New(nil, nil)
	_, err := b.AddLines(ctx, CartID, add("var2", 1))
	require.NoError(t, err)
	cart, err := b.UpdateLines(ctx, CartID, []commerce.LineUpdate{{ID: "missing", Quantity: 5}})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalQuantity)
}

func TestCreateCartStartsFresh(t *testing.T) {
	ctx := context.Background()
	b := New(nil, nil)
	_, err := b.AddLines(ctx, CartID, add("var2", 4))
	require.NoError(t, err)

	cart, err := b.CreateCart(ctx, add("var1", 1))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "var1", cart.Items[0].VariantID)
	assert.Equal(t, 1, cart.TotalQuantity)
}

func TestTotalsStayConsistentOverRandomSequences(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	variants := []string{"var1", "var2", "var3", "var4", "var5", "var6", "var7", "var8"}

	for run := 0; run < 20; run++ {
		b := New(nil, nil)
		t.Run(fmt.Sprintf("run-%d", run), func(t *testing.T) {
			for step := 0; step < 40; step++ {
				cart, err := b.GetCart(ctx, CartID)
				require.NoError(t, err)

				switch op := rng.Intn(3); {
				case op == 0 || len(cart.Items) == 0:
					cart, err = b.AddLines(ctx, CartID, add(variants[rng.Intn(len(variants))], 1+rng.Intn(4)))
				case op == 1:
					target := cart.Items[rng.Intn(len(cart.Items))]
					cart, err = b.UpdateLines(ctx, CartID, []commerce.LineUpdate{{ID: target.ID, Quantity: rng.Intn(6) - 1}})
				default:
					target := cart.Items[rng.Intn(len(cart.Items))]
					cart, err = b.RemoveLines(ctx, CartID, []string{target.ID})
				}
				require.NoError(t, err)
				requireConsistent(t, cart)
			}
		})
	}
}

func TestLineIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	b := New(nil, nil)
	for _, v := range []string{"var1", "var2", "var3"} {
		_, err := b.AddLines(ctx, CartID, add(v, 1))
		require.NoError(t, err)
	}
	cart, _ := b.GetCart(ctx, CartID)
	seen := map[string]bool{}
	for _, l := range cart.Items {
		assert.False(t, seen[l.ID], "duplicate line id %s", l.ID)
		seen[l.ID] = true
	}
}

func TestProductByHandle(t *testing.T) {
	b := New(nil, nil)
	p, err := b.ProductByHandle("led-desk-lamp")
	require.NoError(t, err)
	assert.Equal(t, "LED Desk Lamp", p.Title)
	assert.Equal(t, 79.99, p.PriceRange.Min)

	_, err = b.ProductByHandle("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, b.Products(), 8)
}
