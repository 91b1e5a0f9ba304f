package repository

import (
	"context"
	"time"

	"github.com/carpeta/organizer/internal/note"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for notes. Ids are uuid
// strings stored in _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// listings sort by last edit
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "updatedAt", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(n *note.Note) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	_, err := m.col.InsertOne(context.Background(), n)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

func (m *MongoRepo) Get(id string) (*note.Note, error) {
	var n note.Note
	err := m.col.FindOne(context.Background(), bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (m *MongoRepo) List() ([]*note.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := m.col.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.Background())
	out := []*note.Note{}
	for cur.Next(context.Background()) {
		var n note.Note
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(id string, p note.Patch) (*note.Note, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Color != nil {
		set["color"] = *p.Color
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n note.Note
	err := m.col.FindOneAndUpdate(context.Background(), bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (m *MongoRepo) Delete(id string) error {
	res, err := m.col.DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
