package repository

import (
	"context"
	"time"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTBYBRepository struct {
	col *mongo.Collection
}

func NewMongoTBYBRepository(db *mongo.Database) *MongoTBYBRepository {
	return &MongoTBYBRepository{col: db.Collection("tbyb")}
}

func (m *MongoTBYBRepository) Insert(ctx context.Context, e *model.TBYBEntry) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	_, err := m.col.InsertOne(ctx, e)
	return err
}

func (m *MongoTBYBRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*model.TBYBEntry, error) {
	skip, take := SkipLimit(page, limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(take).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.TBYBEntry
	for cur.Next(ctx) {
		var v model.TBYBEntry
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoTBYBRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	return m.find(ctx, bson.M{"user_id": userID}, page, limit)
}

func (m *MongoTBYBRepository) FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	return m.find(ctx, bson.M{"item_id": itemID}, page, limit)
}

func (m *MongoTBYBRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
