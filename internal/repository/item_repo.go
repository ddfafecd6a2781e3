package repository

import (
	"context"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoItemRepository struct {
	items   *mongo.Collection
	details *mongo.Collection
}

func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{
		items:   db.Collection("items"),
		details: db.Collection("item_details"),
	}
}

func (m *MongoItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Item, error) {
	var res model.Item
	err := m.items.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindByIDs trae varios artículos de un viaje, indexados por id.
func (m *MongoItemRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Item, error) {
	cur, err := m.items.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]*model.Item, len(ids))
	for cur.Next(ctx) {
		var v model.Item
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out[v.ID] = &v
	}
	return out, cur.Err()
}

func (m *MongoItemRepository) FindDetailByItemID(ctx context.Context, itemID primitive.ObjectID) (*model.ItemDetail, error) {
	var res model.ItemDetail
	err := m.details.FindOne(ctx, bson.M{"item_id": itemID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}
