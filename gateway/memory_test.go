package gateway

import (
	"context"
	"testing"

	"go-shopping/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway() *Gateway {
	return New(NewMemoryStore(), NewDiskStore("", "http://localhost:8000"))
}

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	id, err := gw.Products.Create(ctx, models.Product{UserID: "u1", Title: "Lamp", Price: models.NewMoney(100), StockQuantity: 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p, err := gw.Products.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, models.NewMoney(100), p.Price)
	assert.Equal(t, int64(3), p.StockQuantity)

	_, err = gw.Products.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMergeWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Set(ctx, CollUsers, "u1", models.User{FirstName: "Ana", LastName: "P", Email: "a@x.mk"})
	require.NoError(t, err)
	_, err = store.Set(ctx, CollUsers, "u1", Fields{"mobile": int64(70123456)})
	require.NoError(t, err)

	var u models.User
	require.NoError(t, store.Get(ctx, CollUsers, "u1", &u))
	assert.Equal(t, "Ana", u.FirstName)
	assert.Equal(t, int64(70123456), u.Mobile)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	id, err := gw.CartItems.Create(ctx, models.CartItem{UserID: "u1", CartQuantity: 1})
	require.NoError(t, err)
	require.NoError(t, gw.CartItems.Update(ctx, id, Fields{"cart_quantity": int64(2)}))

	row, err := gw.CartItems.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), row.CartQuantity)
	assert.Equal(t, "u1", row.UserID)

	err = gw.CartItems.Update(ctx, "nope", Fields{"cart_quantity": int64(2)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFind(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	for _, row := range []models.CartItem{
		{UserID: "u1", ProductID: "p1"},
		{UserID: "u1", ProductID: "p2"},
		{UserID: "u2", ProductID: "p1"},
	} {
		_, err := gw.CartItems.Create(ctx, row)
		require.NoError(t, err)
	}

	all, err := gw.CartItems.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := gw.CartItems.Find(ctx, Eq("user_id", "u1"))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	one, err := gw.CartItems.Find(ctx, Eq("user_id", "u1"), Eq("product_id", "p1"))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.NotEmpty(t, one[0].ID)

	none, err := gw.CartItems.Find(ctx, Eq("user_id", "u3"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	id, err := gw.Addresses.Create(ctx, models.Address{UserID: "u1"})
	require.NoError(t, err)
	require.NoError(t, gw.Addresses.Delete(ctx, id))
	require.NoError(t, gw.Addresses.Delete(ctx, id))

	_, err = gw.Addresses.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCommit(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	pid, err := gw.Products.Create(ctx, models.Product{Title: "Lamp", StockQuantity: 5})
	require.NoError(t, err)
	rowID, err := gw.CartItems.Create(ctx, models.CartItem{ProductID: pid, CartQuantity: 2})
	require.NoError(t, err)

	err = gw.Commit(ctx,
		gw.SoldProducts.SetOp("", models.SoldProduct{ProductID: pid, SoldQuantity: 2}),
		gw.Products.DecrementOp(pid, "stock_quantity", 2),
		gw.CartItems.DeleteOp(rowID),
	)
	require.NoError(t, err)

	p, err := gw.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.StockQuantity)

	_, err = gw.CartItems.Get(ctx, rowID)
	assert.ErrorIs(t, err, ErrNotFound)

	sold, err := gw.SoldProducts.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, sold, 1)
}

func TestMemoryStoreCommitAllOrNothing(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	pid, err := gw.Products.Create(ctx, models.Product{Title: "Lamp", StockQuantity: 1})
	require.NoError(t, err)
	rowID, err := gw.CartItems.Create(ctx, models.CartItem{ProductID: pid, CartQuantity: 2})
	require.NoError(t, err)

	err = gw.Commit(ctx,
		gw.SoldProducts.SetOp("", models.SoldProduct{ProductID: pid, SoldQuantity: 2}),
		gw.CartItems.DeleteOp(rowID),
		gw.Products.DecrementOp(pid, "stock_quantity", 2),
	)
	require.ErrorIs(t, err, ErrInsufficient)

	p, err := gw.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.StockQuantity)

	_, err = gw.CartItems.Get(ctx, rowID)
	assert.NoError(t, err)

	sold, err := gw.SoldProducts.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, sold)

	err = gw.Commit(ctx, gw.Products.DecrementOp("missing", "stock_quantity", 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCommitGuards(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	oid, err := gw.Orders.Create(ctx, models.Order{Title: "1"})
	require.NoError(t, err)
	rowID, err := gw.CartItems.Create(ctx, models.CartItem{CartQuantity: 2})
	require.NoError(t, err)
	settle := func(qty int64) []Op {
		return []Op{
			gw.SoldProducts.SetOp("", models.SoldProduct{OrderID: "1"}),
			gw.CartItems.DeleteExistingOp(rowID, Eq("cart_quantity", qty)),
			gw.Orders.UpdateIfOp(oid, Fields{"settled": true}, Eq("settled", false)),
		}
	}

	// quantity changed since the snapshot
	err = gw.Commit(ctx, settle(3)...)
	require.ErrorIs(t, err, ErrConflict)
	_, err = gw.CartItems.Get(ctx, rowID)
	assert.NoError(t, err)

	require.NoError(t, gw.Commit(ctx, settle(2)...))
	o, err := gw.Orders.Get(ctx, oid)
	require.NoError(t, err)
	assert.True(t, o.Settled)

	// the row is gone now, and so the replay writes nothing
	err = gw.Commit(ctx, settle(2)...)
	require.ErrorIs(t, err, ErrConflict)
	sold, err := gw.SoldProducts.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, sold, 1)

	// a settled order fails its guard
	rowID, err = gw.CartItems.Create(ctx, models.CartItem{CartQuantity: 2})
	require.NoError(t, err)
	err = gw.Commit(ctx, settle(2)...)
	require.ErrorIs(t, err, ErrConflict)
	_, err = gw.CartItems.Get(ctx, rowID)
	assert.NoError(t, err)

	err = gw.Commit(ctx, gw.Orders.UpdateIfOp("missing", Fields{"settled": true}, Eq("settled", false)))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCommitCreate(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	require.NoError(t, gw.Commit(ctx,
		gw.Emails.CreateOp("ana@x.mk", models.EmailClaim{AccountID: "a1"}),
		gw.Accounts.SetOp("a1", models.Account{Email: "ana@x.mk"}),
	))

	err := gw.Commit(ctx,
		gw.Emails.CreateOp("ana@x.mk", models.EmailClaim{AccountID: "a2"}),
		gw.Accounts.SetOp("a2", models.Account{Email: "ana@x.mk"}),
	)
	require.ErrorIs(t, err, ErrDuplicate)

	claim, err := gw.Emails.Get(ctx, "ana@x.mk")
	require.NoError(t, err)
	assert.Equal(t, "a1", claim.AccountID)
	_, err = gw.Accounts.Get(ctx, "a2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreEmbeddedSnapshot(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway()

	id, err := gw.Orders.Create(ctx, models.Order{
		Title:   "1712345678901",
		Items:   []models.CartItem{{ID: "row1", Title: "Lamp", Price: models.NewMoney(100), CartQuantity: 2}},
		Address: models.Address{ID: "a1", Name: "Home", Type: models.AddressHome},
	})
	require.NoError(t, err)

	o, err := gw.Orders.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "row1", o.Items[0].ID)
	assert.Equal(t, models.NewMoney(100), o.Items[0].Price)
	assert.Equal(t, "a1", o.Address.ID)
}

func TestFindRequiresSlicePointer(t *testing.T) {
	var p models.Product
	err := NewMemoryStore().Find(context.Background(), CollProducts, nil, &p)
	assert.ErrorIs(t, err, errBadDestination)
}
