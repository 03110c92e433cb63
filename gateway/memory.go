package gateway

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

type memState map[string]map[string]bson.M

// MemoryStore keeps documents in process memory, encoded through bson the
// same way MongoStore encodes them.
type MemoryStore struct {
	mu    sync.RWMutex
	state memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: memState{}}
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.set(collection, id, doc)
}

func (s *MemoryStore) Get(_ context.Context, collection, id string, dst any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.state[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return fromDocument(doc, dst)
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.update(collection, id, fields)
}

func (s *MemoryStore) Find(_ context.Context, collection string, filters []Filter, dst any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.state[collection]
	ids := make([]string, 0, len(coll))
	for id, doc := range coll {
		if matches(doc, filters) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return appendAll(dst, len(ids), func(i int, elem any) error {
		return fromDocument(coll[ids[i]], elem)
	})
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state[collection], id)
	return nil
}

// Commit applies ops to a copy of the data and swaps it in only when every
// op succeeded.
func (s *MemoryStore) Commit(_ context.Context, ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	for _, op := range ops {
		if err := staged.apply(op); err != nil {
			return err
		}
	}
	s.state = staged
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (m memState) set(collection, id string, doc any) (string, error) {
	fields, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = NewID()
	}
	coll, ok := m[collection]
	if !ok {
		coll = map[string]bson.M{}
		m[collection] = coll
	}
	current, ok := coll[id]
	if !ok {
		current = bson.M{}
	}
	for k, v := range fields {
		current[k] = v
	}
	current["_id"] = id
	coll[id] = current
	return id, nil
}

func (m memState) update(collection, id string, fields Fields) error {
	current, ok := m[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	encoded, err := toDocument(fields)
	if err != nil {
		return err
	}
	for k, v := range encoded {
		current[k] = v
	}
	return nil
}

func (m memState) decrement(collection, id, field string, amount int64) error {
	current, ok := m[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	have, _ := toInt64(current[field])
	if have < amount {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrInsufficient)
	}
	current[field] = have - amount
	return nil
}

func (m memState) apply(op Op) error {
	switch op.Kind {
	case OpSet:
		_, err := m.set(op.Collection, op.ID, op.Doc)
		return err
	case OpUpdate:
		if len(op.Where) > 0 {
			current, ok := m[op.Collection][op.ID]
			if !ok {
				return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrNotFound)
			}
			if !matches(current, op.Where) {
				return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
			}
		}
		return m.update(op.Collection, op.ID, op.Fields)
	case OpDecrement:
		return m.decrement(op.Collection, op.ID, op.Field, op.Amount)
	case OpDelete:
		delete(m[op.Collection], op.ID)
		return nil
	case OpCreate:
		if _, ok := m[op.Collection][op.ID]; ok {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrDuplicate)
		}
		_, err := m.set(op.Collection, op.ID, op.Doc)
		return err
	case OpDeleteExisting:
		current, ok := m[op.Collection][op.ID]
		if !ok || !matches(current, op.Where) {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
		}
		delete(m[op.Collection], op.ID)
		return nil
	}
	return fmt.Errorf("gateway: unknown op kind %d", op.Kind)
}

func (m memState) clone() memState {
	out := make(memState, len(m))
	for name, coll := range m {
		c := make(map[string]bson.M, len(coll))
		for id, doc := range coll {
			d := make(bson.M, len(doc))
			for k, v := range doc {
				d[k] = v
			}
			c[id] = d
		}
		out[name] = c
	}
	return out
}

func matches(doc bson.M, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok || !valueEquals(v, f.Value) {
			return false
		}
	}
	return true
}

// valueEquals compares a stored value with a filter value. Integers compare
// by value whatever their width.
func valueEquals(stored, want any) bool {
	if a, ok := toInt64(stored); ok {
		b, ok := toInt64(want)
		return ok && a == b
	}
	return reflect.DeepEqual(stored, want)
}
