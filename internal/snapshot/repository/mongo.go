package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedSnapshot is the Mongo representation of a snapshot blob. The JSON is
// kept as a string so the wire shape survives untouched.
type storedSnapshot struct {
	Key       string    `bson:"key"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepo stores one document per key in the given collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// key is unique: saves are upserts
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Put(ctx context.Context, key string, blob []byte) error {
	rec := storedSnapshot{Key: key, Data: string(blob), UpdatedAt: time.Now().UTC()}
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var rec storedSnapshot
	if err := m.col.FindOne(ctx, bson.M{"key": key}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Data), nil
}
