package repository

import (
	"context"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCartRepository struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{col: db.Collection("carts")}
}

func (m *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	var res model.Cart
	err := m.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoCartRepository) Upsert(ctx context.Context, cart *model.Cart) error {
	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": bson.M{"items": cart.Items}}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

type MongoWishlistRepository struct {
	col *mongo.Collection
}

func NewMongoWishlistRepository(db *mongo.Database) *MongoWishlistRepository {
	return &MongoWishlistRepository{col: db.Collection("wishlists")}
}

func (m *MongoWishlistRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
