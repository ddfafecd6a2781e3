package repository

import (
	"context"
	"time"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoInvoiceRepository struct {
	col *mongo.Collection
}

func NewMongoInvoiceRepository(db *mongo.Database) *MongoInvoiceRepository {
	return &MongoInvoiceRepository{col: db.Collection("invoices")}
}

func (m *MongoInvoiceRepository) Insert(ctx context.Context, inv *model.Invoice) error {
	inv.ID = primitive.NewObjectID()
	inv.IssuedAt = time.Now().UTC()
	_, err := m.col.InsertOne(ctx, inv)
	return err
}

func (m *MongoInvoiceRepository) FindByOrderID(ctx context.Context, orderID primitive.ObjectID) (*model.Invoice, error) {
	var res model.Invoice
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoInvoiceRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	return err
}
