package usecase

import (
	"context"
	"testing"

	"go-shopping/gateway"
	"go-shopping/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lamp := f.product(t, "seller", "lamp", models.NewMoney(100), 2)
	chair := f.product(t, "seller", "chair", models.NewMoney(50), 0)

	_, err := f.cart.AddToCart(ctx, "seller", lamp.ID)
	assert.ErrorIs(t, err, ErrOwnProduct)

	_, err = f.cart.AddToCart(ctx, "buyer", chair.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)

	row, err := f.cart.AddToCart(ctx, "buyer", lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.CartQuantity)
	assert.Equal(t, "seller", row.ProductOwnerID)
	assert.Equal(t, lamp.Price, row.Price)

	_, err = f.cart.AddToCart(ctx, "buyer", lamp.ID)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	rows, err := f.gw.CartItems.Find(ctx, gateway.Eq("user_id", "buyer"))
	require.NoError(t, err)
	assert.Len(t, rows, 1, "a second add must not create or merge rows")
}

func TestPriceRule(t *testing.T) {
	rows := []models.CartItem{
		{Price: models.NewMoney(100), CartQuantity: 2, StockQuantity: 5},
		{Price: models.NewMoney(30), CartQuantity: 1, StockQuantity: 0},
		{Price: models.Money(1250), CartQuantity: 3, StockQuantity: 3},
	}
	s, err := Price(rows, models.NewMoney(120))
	require.NoError(t, err)
	assert.Equal(t, models.Money(23750), s.SubTotal)
	assert.Equal(t, s.SubTotal+models.NewMoney(120), s.Total)
	assert.Equal(t, "237.50 denar", s.SubTotalLabel)
	assert.Equal(t, "357.50 denar", s.TotalLabel)

	rows = append(rows, models.CartItem{Price: models.MaxMoney, CartQuantity: 1, StockQuantity: 1})
	_, err = Price(rows, models.NewMoney(120))
	assert.ErrorIs(t, err, models.ErrOutOfRange)
}

func TestCartIncrementDecrement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lamp := f.product(t, "seller", "lamp", models.NewMoney(100), 2)
	row, err := f.cart.AddToCart(ctx, "buyer", lamp.ID)
	require.NoError(t, err)

	view, err := f.cart.Increment(ctx, "buyer", row.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2), view.Items[0].CartQuantity)
	assert.False(t, view.Items[0].CanIncrement)

	_, err = f.cart.Increment(ctx, "buyer", row.ID)
	var limit *StockLimitError
	require.ErrorAs(t, err, &limit)
	assert.ErrorIs(t, err, ErrStockLimit)
	assert.Equal(t, "Only 2 items available", err.Error())

	view, err = f.cart.Decrement(ctx, "buyer", row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.Items[0].CartQuantity)

	view, err = f.cart.Decrement(ctx, "buyer", row.ID)
	require.NoError(t, err)
	assert.True(t, view.Empty)
	_, err = f.gw.CartItems.Get(ctx, row.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestCartRowsAreOwnerChecked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lamp := f.product(t, "seller", "lamp", models.NewMoney(100), 2)
	row, err := f.cart.AddToCart(ctx, "buyer", lamp.ID)
	require.NoError(t, err)

	_, err = f.cart.Increment(ctx, "intruder", row.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	_, err = f.cart.Remove(ctx, "intruder", row.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	view, err := f.cart.Remove(ctx, "buyer", row.ID)
	require.NoError(t, err)
	assert.True(t, view.Empty)
}

func TestCartOutOfStockRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lamp := f.product(t, "seller", "lamp", models.NewMoney(100), 2)
	row, err := f.cart.AddToCart(ctx, "buyer", lamp.ID)
	require.NoError(t, err)

	// stock runs out after the row was added
	require.NoError(t, f.gw.Products.Update(ctx, lamp.ID, gateway.Fields{"stock_quantity": int64(0)}))

	view, err := f.cart.Cart(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	line := view.Items[0]
	assert.Equal(t, row.ID, line.ID)
	assert.True(t, line.OutOfStock)
	assert.Equal(t, int64(0), line.CartQuantity)
	assert.True(t, line.CanDelete)
	assert.False(t, line.CanIncrement)
	assert.False(t, line.CanDecrement)
	assert.Equal(t, models.Money(0), view.Summary.SubTotal)
	assert.False(t, view.CheckoutVisible)
	assert.False(t, view.Empty)
}

func TestCartRowWithDeletedProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lamp := f.product(t, "seller", "lamp", models.NewMoney(100), 2)
	_, err := f.cart.AddToCart(ctx, "buyer", lamp.ID)
	require.NoError(t, err)
	require.NoError(t, f.gw.Products.Delete(ctx, lamp.ID))

	view, err := f.cart.Cart(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].OutOfStock)
}

func TestAddressRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := AddressInput{Name: "Ana", MobileNumber: "070", Address: "Street 1", ZipCode: "1000", Type: models.AddressOther}
	_, err := f.address.AddAddress(ctx, "u1", in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "otherDetails", ve.Field)

	_, err = f.address.AddAddress(ctx, "u1", AddressInput{Name: "Ana", MobileNumber: "070", Address: "Street 1", ZipCode: "1000", Type: "Castle"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)

	_, err = f.address.AddAddress(ctx, "u1", AddressInput{Name: "Ana", Address: "Street 1", ZipCode: "1000"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mobileNumber", ve.Field)

	in.OtherDetails = "Summer house"
	a, err := f.address.AddAddress(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "Summer house", a.OtherDetails)

	in.Type = models.AddressOffice
	in.Name = "Ana Office"
	updated, err := f.address.UpdateAddress(ctx, "u1", a.ID, in)
	require.NoError(t, err)
	assert.Empty(t, updated.OtherDetails)

	_, err = f.address.UpdateAddress(ctx, "u2", a.ID, in)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.ErrorIs(t, f.address.DeleteAddress(ctx, "u2", a.ID), gateway.ErrNotFound)

	list, err := f.address.Addresses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Office", list[0].Name)
	assert.Empty(t, list[0].OtherDetails)

	require.NoError(t, f.address.DeleteAddress(ctx, "u1", a.ID))
	list, err = f.address.Addresses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
