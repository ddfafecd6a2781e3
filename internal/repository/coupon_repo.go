package repository

import (
	"context"
	"strings"
	"time"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCouponRepository struct {
	col *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) *MongoCouponRepository {
	return &MongoCouponRepository{col: db.Collection("coupons")}
}

func (m *MongoCouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	c.ID = primitive.NewObjectID()
	c.Code = strings.ToUpper(c.Code)
	c.CreatedAt = time.Now().UTC()
	_, err := m.col.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *MongoCouponRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error) {
	var res model.Coupon
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindByCode normaliza el código a mayúsculas antes de buscar.
func (m *MongoCouponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var res model.Coupon
	err := m.col.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoCouponRepository) FindAll(ctx context.Context, page, limit int) ([]*model.Coupon, int64, error) {
	total, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	skip, take := SkipLimit(page, limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(take).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*model.Coupon
	for cur.Next(ctx) {
		var v model.Coupon
		if err := cur.Decode(&v); err != nil {
			return nil, 0, err
		}
		out = append(out, &v)
	}
	return out, total, cur.Err()
}

func (m *MongoCouponRepository) Update(ctx context.Context, c *model.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": c})
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendUsedBy registra al usuario como consumidor del cupón.
// Lectura-modificación-escritura sin reintento optimista: dos canjes
// concurrentes del mismo actor pueden pasar ambos el chequeo previo.
func (m *MongoCouponRepository) AppendUsedBy(ctx context.Context, couponID, userID primitive.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"used_by": userID}}
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": couponID}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
