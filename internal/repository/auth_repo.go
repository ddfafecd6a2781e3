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

// Estado auxiliar de autenticación: registros OTP y refresh tokens.
// Ambas colecciones llevan índice TTL sobre expires_at.
type MongoAuthRepository struct {
	otps    *mongo.Collection
	refresh *mongo.Collection
}

func NewMongoAuthRepository(db *mongo.Database) *MongoAuthRepository {
	return &MongoAuthRepository{
		otps:    db.Collection("otps"),
		refresh: db.Collection("refresh_tokens"),
	}
}

// EnsureIndexes crea los índices TTL; Mongo descarta los vencidos solo.
func (m *MongoAuthRepository) EnsureIndexes(ctx context.Context) error {
	ttl := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := m.otps.Indexes().CreateOne(ctx, ttl); err != nil {
		return err
	}
	_, err := m.refresh.Indexes().CreateOne(ctx, ttl)
	return err
}

// UpsertOTP reemplaza el registro OTP vigente para el teléfono.
func (m *MongoAuthRepository) UpsertOTP(ctx context.Context, rec *model.OTPRecord) error {
	rec.CreatedAt = time.Now().UTC()
	filter := bson.M{"phone": rec.Phone}
	update := bson.M{"$set": bson.M{
		"phone":          rec.Phone,
		"session_id":     rec.SessionID,
		"expires_at":     rec.ExpiresAt,
		"verified":       rec.Verified,
		"verified_until": rec.VerifiedUntil,
		"created_at":     rec.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := m.otps.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoAuthRepository) FindOTPByPhone(ctx context.Context, phone string) (*model.OTPRecord, error) {
	var res model.OTPRecord
	err := m.otps.FindOne(ctx, bson.M{"phone": phone}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// MarkOTPVerified prende la marca de verificación con su propia ventana.
func (m *MongoAuthRepository) MarkOTPVerified(ctx context.Context, phone string, until time.Time) error {
	update := bson.M{"$set": bson.M{
		"verified":       true,
		"verified_until": until,
	}}
	r, err := m.otps.UpdateOne(ctx, bson.M{"phone": phone}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoAuthRepository) InsertRefreshToken(ctx context.Context, t *model.RefreshToken) error {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	t.Active = true
	_, err := m.refresh.InsertOne(ctx, t)
	return err
}

func (m *MongoAuthRepository) FindActiveRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var res model.RefreshToken
	err := m.refresh.FindOne(ctx, bson.M{"token": token, "active": true}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// DeactivateRefreshToken lo marca inactivo (rotación o logout).
func (m *MongoAuthRepository) DeactivateRefreshToken(ctx context.Context, token string) error {
	update := bson.M{"$set": bson.M{"active": false}}
	r, err := m.refresh.UpdateOne(ctx, bson.M{"token": token}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoAuthRepository) DeactivateAllForOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"active": false}}
	_, err := m.refresh.UpdateMany(ctx, bson.M{"owner_id": ownerID}, update)
	return err
}
