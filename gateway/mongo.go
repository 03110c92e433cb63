package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps collections in a MongoDB database
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo connects to MongoDB and checks the connection
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, database), nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

// Database exposes the underlying database, used for the GridFS bucket
func (s *MongoStore) Database() *mongo.Database {
	return s.db
}

// EnsureIndexes creates the unique index on account emails
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(CollAccounts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create accounts index: %w", err)
	}
	return nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc any) (string, error) {
	if id == "" {
		id = NewID()
	}
	if err := s.set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) set(ctx context.Context, collection, id string, doc any) error {
	fields, err := toDocument(doc)
	if err != nil {
		return err
	}
	update := bson.M{"$setOnInsert": bson.M{"_id": id}}
	if len(fields) > 0 {
		update = bson.M{"$set": fields}
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, dst any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filters []Filter, dst any) error {
	filter := bson.D{}
	for _, f := range filters {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, dst); err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Commit runs ops in a session transaction. This needs a replica set.
func (s *MongoStore) Commit(ctx context.Context, ops []Op) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			if err := s.apply(sc, op); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *MongoStore) apply(ctx context.Context, op Op) error {
	switch op.Kind {
	case OpSet:
		id := op.ID
		if id == "" {
			id = NewID()
		}
		return s.set(ctx, op.Collection, id, op.Doc)
	case OpUpdate:
		if len(op.Where) > 0 {
			return s.updateIf(ctx, op)
		}
		return s.Update(ctx, op.Collection, op.ID, op.Fields)
	case OpDecrement:
		return s.decrement(ctx, op)
	case OpDelete:
		return s.Delete(ctx, op.Collection, op.ID)
	case OpCreate:
		doc, err := toDocument(op.Doc)
		if err != nil {
			return err
		}
		doc["_id"] = op.ID
		_, err = s.db.Collection(op.Collection).InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("create %s/%s: %w", op.Collection, op.ID, err)
		}
		return nil
	case OpDeleteExisting:
		res, err := s.db.Collection(op.Collection).DeleteOne(ctx, guardFilter(op))
		if err != nil {
			return fmt.Errorf("delete %s/%s: %w", op.Collection, op.ID, err)
		}
		if res.DeletedCount == 0 {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
		}
		return nil
	}
	return fmt.Errorf("gateway: unknown op kind %d", op.Kind)
}

func guardFilter(op Op) bson.D {
	filter := bson.D{{Key: "_id", Value: op.ID}}
	for _, f := range op.Where {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}
	return filter
}

func (s *MongoStore) updateIf(ctx context.Context, op Op) error {
	coll := s.db.Collection(op.Collection)
	res, err := coll.UpdateOne(ctx, guardFilter(op), bson.M{"$set": bson.M(op.Fields)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := coll.CountDocuments(ctx, bson.M{"_id": op.ID})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrNotFound)
	}
	return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrConflict)
}

// decrement only matches while the field still holds at least the amount
func (s *MongoStore) decrement(ctx context.Context, op Op) error {
	coll := s.db.Collection(op.Collection)
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": op.ID, op.Field: bson.M{"$gte": op.Amount}},
		bson.M{"$inc": bson.M{op.Field: -op.Amount}},
	)
	if err != nil {
		return fmt.Errorf("decrement %s/%s: %w", op.Collection, op.ID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := coll.CountDocuments(ctx, bson.M{"_id": op.ID})
	if err != nil {
		return fmt.Errorf("decrement %s/%s: %w", op.Collection, op.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrNotFound)
	}
	return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, ErrInsufficient)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
