package repository

import (
	"context"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoReviewRepository struct {
	col *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{col: db.Collection("reviews")}
}

func (m *MongoReviewRepository) Insert(ctx context.Context, r *model.Review) error {
	r.ID = primitive.NewObjectID()
	_, err := m.col.InsertOne(ctx, r)
	return err
}

func (m *MongoReviewRepository) InsertMany(ctx context.Context, reviews []*model.Review) error {
	docs := make([]interface{}, 0, len(reviews))
	for _, r := range reviews {
		r.ID = primitive.NewObjectID()
		docs = append(docs, r)
	}
	_, err := m.col.InsertMany(ctx, docs)
	return err
}

// FindByItem devuelve reseñas orgánicas y sembradas mezcladas, más reciente primero.
func (m *MongoReviewRepository) FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.Review, error) {
	skip, take := SkipLimit(page, limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(take).
		SetSort(bson.D{{Key: "posted_at", Value: -1}})

	cur, err := m.col.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Review
	for cur.Next(ctx) {
		var v model.Review
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoReviewRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
