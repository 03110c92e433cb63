package gateway

import (
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

var errBadDestination = errors.New("gateway: destination must be a pointer to a slice")

// appendAll decodes n documents into the slice behind dst using decode
func appendAll(dst any, n int, decode func(i int, elem any) error) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return errBadDestination
	}
	slice := v.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, n)
	for i := 0; i < n; i++ {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(i, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

// toDocument converts a struct or Fields into a bson.M without _id
func toDocument(doc any) (bson.M, error) {
	if f, ok := doc.(Fields); ok {
		doc = bson.M(f)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(m, "_id")
	return m, nil
}

func fromDocument(doc bson.M, dst any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := bson.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
