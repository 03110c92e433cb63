//go:build integration
// +build integration

package gateway

import (
	"context"
	"io"
	"strings"
	"testing"

	"go-shopping/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// setupMongo starts a single node replica set so transactions work
func setupMongo(t *testing.T) *MongoStore {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	store, err := ConnectMongo(ctx, uri, "shopping_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestMongoStore(t *testing.T) {
	ctx := context.Background()
	store := setupMongo(t)
	gw := New(store, nil)

	pid, err := gw.Products.Create(ctx, models.Product{UserID: "u1", Title: "Lamp", Price: models.NewMoney(100), StockQuantity: 2})
	require.NoError(t, err)

	require.NoError(t, gw.Products.Update(ctx, pid, Fields{"title": "Desk lamp"}))
	p, err := gw.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", p.Title)
	assert.Equal(t, models.NewMoney(100), p.Price)

	found, err := gw.Products.Find(ctx, Eq("user_id", "u1"))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = gw.Products.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	rowID, err := gw.CartItems.Create(ctx, models.CartItem{ProductID: pid, CartQuantity: 3})
	require.NoError(t, err)

	// decrement by 3 with 2 in stock aborts the whole batch
	err = gw.Commit(ctx,
		gw.CartItems.DeleteOp(rowID),
		gw.Products.DecrementOp(pid, "stock_quantity", 3),
	)
	require.ErrorIs(t, err, ErrInsufficient)
	_, err = gw.CartItems.Get(ctx, rowID)
	assert.NoError(t, err)

	err = gw.Commit(ctx,
		gw.SoldProducts.SetOp("", models.SoldProduct{ProductID: pid, SoldQuantity: 2}),
		gw.CartItems.DeleteOp(rowID),
		gw.Products.DecrementOp(pid, "stock_quantity", 2),
	)
	require.NoError(t, err)
	p, err = gw.Products.Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.StockQuantity)
}

func TestMongoStoreCommitGuards(t *testing.T) {
	ctx := context.Background()
	gw := New(setupMongo(t), nil)

	oid, err := gw.Orders.Create(ctx, models.Order{Title: "1"})
	require.NoError(t, err)
	rowID, err := gw.CartItems.Create(ctx, models.CartItem{CartQuantity: 2})
	require.NoError(t, err)
	settle := []Op{
		gw.SoldProducts.SetOp("", models.SoldProduct{OrderID: "1"}),
		gw.CartItems.DeleteExistingOp(rowID, Eq("cart_quantity", int64(2))),
		gw.Orders.UpdateIfOp(oid, Fields{"settled": true}, Eq("settled", false)),
	}
	require.NoError(t, gw.Commit(ctx, settle...))

	err = gw.Commit(ctx, settle...)
	require.ErrorIs(t, err, ErrConflict)
	sold, err := gw.SoldProducts.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, sold, 1)

	err = gw.Commit(ctx, gw.Orders.UpdateIfOp(oid, Fields{"settled": true}, Eq("settled", false)))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMongoStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	gw := New(setupMongo(t), nil)

	require.NoError(t, gw.Accounts.Save(ctx, "a1", models.Account{Email: "a@x.mk"}))
	err := gw.Accounts.Save(ctx, "a2", models.Account{Email: "a@x.mk"})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, gw.Commit(ctx, gw.Emails.CreateOp("b@x.mk", models.EmailClaim{AccountID: "b1"})))
	err = gw.Commit(ctx, gw.Emails.CreateOp("b@x.mk", models.EmailClaim{AccountID: "b2"}))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGridFSStore(t *testing.T) {
	ctx := context.Background()
	store := setupMongo(t)

	blobs, err := NewGridFSStore(store.Database(), "http://localhost:8000")
	require.NoError(t, err)

	url, err := blobs.Upload(ctx, "Product_Image1.jpg", "image/jpeg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/images/Product_Image1.jpg", url)

	rc, err := blobs.Open(ctx, "Product_Image1.jpg")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))

	_, err = blobs.Open(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}
