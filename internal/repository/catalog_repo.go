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

// Repos chicos de catálogo: filtros y banners.

type MongoFilterRepository struct {
	col *mongo.Collection
}

func NewMongoFilterRepository(db *mongo.Database) *MongoFilterRepository {
	return &MongoFilterRepository{col: db.Collection("filters")}
}

func (m *MongoFilterRepository) Insert(ctx context.Context, f *model.Filter) error {
	f.ID = primitive.NewObjectID()
	_, err := m.col.InsertOne(ctx, f)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *MongoFilterRepository) FindAll(ctx context.Context) ([]*model.Filter, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Filter
	for cur.Next(ctx) {
		var v model.Filter
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoFilterRepository) Update(ctx context.Context, f *model.Filter) error {
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": f.ID}, bson.M{"$set": f})
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoFilterRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoBannerRepository struct {
	col *mongo.Collection
}

func NewMongoBannerRepository(db *mongo.Database) *MongoBannerRepository {
	return &MongoBannerRepository{col: db.Collection("banners")}
}

func (m *MongoBannerRepository) Insert(ctx context.Context, b *model.Banner) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	_, err := m.col.InsertOne(ctx, b)
	return err
}

func (m *MongoBannerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Banner, error) {
	var res model.Banner
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoBannerRepository) FindActive(ctx context.Context) ([]*model.Banner, error) {
	cur, err := m.col.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Banner
	for cur.Next(ctx) {
		var v model.Banner
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoBannerRepository) Update(ctx context.Context, b *model.Banner) error {
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": b.ID}, bson.M{"$set": b})
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoBannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
