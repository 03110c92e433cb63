package gateway

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"go-shopping/models"

	"github.com/gabriel-vasile/mimetype"
)

// Collection names
const (
	CollUsers        = "users"
	CollAccounts     = "accounts"
	CollProducts     = "products"
	CollCartItems    = "cart_items"
	CollAddresses    = "addresses"
	CollOrders       = "orders"
	CollSoldProducts = "sold_products"
	CollEmails       = "account_emails"
)

// Collection is a typed view of one store collection
type Collection[T any] struct {
	store Store
	name  string
}

func NewCollection[T any](store Store, name string) Collection[T] {
	return Collection[T]{store: store, name: name}
}

func (c Collection[T]) Name() string { return c.name }

func (c Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	err := c.store.Get(ctx, c.name, id, &v)
	return v, err
}

// Find returns every document matching all filters
func (c Collection[T]) Find(ctx context.Context, filters ...Filter) ([]T, error) {
	var out []T
	if err := c.store.Find(ctx, c.name, filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create stores a new document under a generated ID
func (c Collection[T]) Create(ctx context.Context, doc T) (string, error) {
	return c.store.Set(ctx, c.name, "", doc)
}

// Save merge-writes doc under id
func (c Collection[T]) Save(ctx context.Context, id string, doc T) error {
	_, err := c.store.Set(ctx, c.name, id, doc)
	return err
}

func (c Collection[T]) Update(ctx context.Context, id string, fields Fields) error {
	return c.store.Update(ctx, c.name, id, fields)
}

func (c Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// Batch ops on this collection

func (c Collection[T]) SetOp(id string, doc T) Op {
	return Op{Kind: OpSet, Collection: c.name, ID: id, Doc: doc}
}

func (c Collection[T]) UpdateOp(id string, fields Fields) Op {
	return Op{Kind: OpUpdate, Collection: c.name, ID: id, Fields: fields}
}

func (c Collection[T]) DecrementOp(id, field string, amount int64) Op {
	return Op{Kind: OpDecrement, Collection: c.name, ID: id, Field: field, Amount: amount}
}

func (c Collection[T]) DeleteOp(id string) Op {
	return Op{Kind: OpDelete, Collection: c.name, ID: id}
}

// CreateOp writes a new document under id, failing when one exists
func (c Collection[T]) CreateOp(id string, doc T) Op {
	return Op{Kind: OpCreate, Collection: c.name, ID: id, Doc: doc}
}

// UpdateIfOp updates only while the document still matches where
func (c Collection[T]) UpdateIfOp(id string, fields Fields, where ...Filter) Op {
	return Op{Kind: OpUpdate, Collection: c.name, ID: id, Fields: fields, Where: where}
}

// DeleteExistingOp deletes a document that must exist and match where
func (c Collection[T]) DeleteExistingOp(id string, where ...Filter) Op {
	return Op{Kind: OpDeleteExisting, Collection: c.name, ID: id, Where: where}
}

// Gateway bundles the shop collections and the image store
type Gateway struct {
	Store        Store
	Blobs        BlobStore
	Users        Collection[models.User]
	Accounts     Collection[models.Account]
	Products     Collection[models.Product]
	CartItems    Collection[models.CartItem]
	Addresses    Collection[models.Address]
	Orders       Collection[models.Order]
	SoldProducts Collection[models.SoldProduct]
	Emails       Collection[models.EmailClaim]

	now func() time.Time
}

func New(store Store, blobs BlobStore) *Gateway {
	return &Gateway{
		Store:        store,
		Blobs:        blobs,
		Users:        NewCollection[models.User](store, CollUsers),
		Accounts:     NewCollection[models.Account](store, CollAccounts),
		Products:     NewCollection[models.Product](store, CollProducts),
		CartItems:    NewCollection[models.CartItem](store, CollCartItems),
		Addresses:    NewCollection[models.Address](store, CollAddresses),
		Orders:       NewCollection[models.Order](store, CollOrders),
		SoldProducts: NewCollection[models.SoldProduct](store, CollSoldProducts),
		Emails:       NewCollection[models.EmailClaim](store, CollEmails),
		now:          time.Now,
	}
}

// Commit applies ops all-or-nothing
func (g *Gateway) Commit(ctx context.Context, ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	return g.Store.Commit(ctx, ops)
}

// UploadImage stores an image under a generated name and returns its URL
func (g *Gateway) UploadImage(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 3072)
	head, err := br.Peek(3072)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("read image: %w", err)
	}
	mtype := mimetype.Detect(head)
	name := BlobName(prefix, imageExtension(filename, mtype), g.now())
	return g.Blobs.Upload(ctx, name, mtype.String(), br)
}

func (g *Gateway) Close(ctx context.Context) error {
	return g.Store.Close(ctx)
}
