// Package gateway is the remote data layer: a document store, a blob store
// and typed collections on top of them.
package gateway

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a document or blob does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("duplicate")
	// ErrInsufficient is returned when a guarded decrement would go below zero
	ErrInsufficient = errors.New("insufficient stock")
	// ErrConflict is returned when a guarded write finds the document gone
	// or changed
	ErrConflict = errors.New("document changed")
)

// Fields is a field-subset write. Only the named fields are touched.
type Fields map[string]any

// Filter is an equality condition on one field
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// OpKind is the kind of write inside a batch
type OpKind int

const (
	OpSet OpKind = iota
	OpUpdate
	OpDecrement
	OpDelete
	// OpCreate fails the batch with ErrDuplicate when the document exists
	OpCreate
	// OpDeleteExisting fails the batch with ErrConflict when the document is
	// missing or does not match Where
	OpDeleteExisting
)

// Op is one write in an all-or-nothing Commit
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Doc        any
	Fields     Fields
	Field      string
	Amount     int64
	// Where guards OpUpdate and OpDeleteExisting. A document that does not
	// match fails the batch with ErrConflict.
	Where []Filter
}

// Store is a document database with named collections
type Store interface {
	// Set creates or merge-writes a document and returns its ID.
	// A new ID is generated when id is empty.
	Set(ctx context.Context, collection, id string, doc any) (string, error)
	// Get decodes one document into dst
	Get(ctx context.Context, collection, id string, dst any) error
	// Update writes a subset of fields of an existing document
	Update(ctx context.Context, collection, id string, fields Fields) error
	// Find decodes every document matching all filters into dst, a pointer to a slice
	Find(ctx context.Context, collection string, filters []Filter, dst any) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Commit applies ops atomically: all of them or none
	Commit(ctx context.Context, ops []Op) error
	Close(ctx context.Context) error
}

// NewID returns a fresh document ID
func NewID() string {
	return primitive.NewObjectID().Hex()
}

type identifiable interface {
	SetID(id string)
}

func setID(v any, id string) {
	if d, ok := v.(identifiable); ok {
		d.SetID(id)
	}
}
