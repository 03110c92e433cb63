package gateway

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps collections in Cloud Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// ConnectFirestore opens a client using application default credentials
func ConnectFirestore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) ref(collection, id string) *firestore.DocumentRef {
	col := s.client.Collection(collection)
	if id == "" {
		return col.NewDoc()
	}
	return col.Doc(id)
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, doc any) (string, error) {
	ref := s.ref(collection, id)
	var err error
	if f, ok := doc.(Fields); ok {
		_, err = ref.Set(ctx, map[string]interface{}(f), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, doc, firestore.Merge(mergePaths(doc)...))
	}
	if err != nil {
		return "", fmt.Errorf("set %s/%s: %w", collection, ref.ID, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string, dst any) error {
	snap, err := s.ref(collection, id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	setID(dst, snap.Ref.ID)
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	_, err := s.ref(collection, id).Update(ctx, updates(fields))
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, filters []Filter, dst any) error {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	return appendAll(dst, len(snaps), func(i int, elem any) error {
		if err := snaps[i].DataTo(elem); err != nil {
			return fmt.Errorf("decode %s/%s: %w", collection, snaps[i].Ref.ID, err)
		}
		setID(elem, snaps[i].Ref.ID)
		return nil
	})
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.ref(collection, id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Commit runs ops in a transaction. Firestore wants every read before the
// first write, so guarded decrements are checked up front.
func (s *FirestoreStore) Commit(ctx context.Context, ops []Op) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, op := range ops {
			if err := s.check(tx, op); err != nil {
				return err
			}
		}

		for _, op := range ops {
			ref := s.ref(op.Collection, op.ID)
			var err error
			switch op.Kind {
			case OpSet:
				if f, ok := op.Doc.(Fields); ok {
					err = tx.Set(ref, map[string]interface{}(f), firestore.MergeAll)
				} else {
					err = tx.Set(ref, op.Doc, firestore.Merge(mergePaths(op.Doc)...))
				}
			case OpUpdate:
				err = tx.Update(ref, updates(op.Fields))
			case OpDecrement:
				err = tx.Update(ref, []firestore.Update{{Path: op.Field, Value: firestore.Increment(-op.Amount)}})
			case OpCreate:
				err = tx.Create(ref, op.Doc)
			case OpDelete, OpDeleteExisting:
				err = tx.Delete(ref)
			default:
				err = fmt.Errorf("gateway: unknown op kind %d", op.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("commit: %w", ErrDuplicate)
	}
	return err
}

// check is the read phase of Commit: it verifies guarded decrements and
// guarded updates and deletes against the current documents
func (s *FirestoreStore) check(tx *firestore.Transaction, op Op) error {
	guarded := op.Kind == OpDecrement || op.Kind == OpDeleteExisting || (op.Kind == OpUpdate && len(op.Where) > 0)
	if op.Kind == OpCreate {
		_, err := tx.Get(s.ref(op.Collection, op.ID))
		switch {
		case err == nil:
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrDuplicate)
		case status.Code(err) == codes.NotFound:
			return nil
		default:
			return fmt.Errorf("get %s/%s: %w", op.Collection, op.ID, err)
		}
	}
	if !guarded {
		return nil
	}
	snap, err := tx.Get(s.ref(op.Collection, op.ID))
	if status.Code(err) == codes.NotFound {
		if op.Kind == OpDeleteExisting {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
		}
		return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", op.Collection, op.ID, err)
	}

	if op.Kind == OpDecrement {
		v, err := snap.DataAt(op.Field)
		if err != nil {
			return fmt.Errorf("read %s/%s.%s: %w", op.Collection, op.ID, op.Field, err)
		}
		if have, _ := toInt64(v); have < op.Amount {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrInsufficient)
		}
		return nil
	}
	for _, f := range op.Where {
		v, err := snap.DataAt(f.Field)
		if err != nil || !valueEquals(v, f.Value) {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
		}
	}
	return nil
}

func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}

// mergePaths lists the firestore field names of a struct document so a
// struct write merges like a map write. The id field is never stored.
func mergePaths(doc any) []firestore.FieldPath {
	t := reflect.TypeOf(doc)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var paths []firestore.FieldPath
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("firestore"), ",")
		if name == "-" || name == "id" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		paths = append(paths, firestore.FieldPath{name})
	}
	return paths
}

func updates(fields Fields) []firestore.Update {
	out := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		out = append(out, firestore.Update{Path: k, Value: v})
	}
	return out
}
