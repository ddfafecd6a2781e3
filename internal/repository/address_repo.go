package repository

import (
	"context"

	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Un documento de libreta por dueño; las direcciones van embebidas y cada
// una es direccionable por su propio _id.
type MongoAddressRepository struct {
	col *mongo.Collection
}

func NewMongoAddressRepository(db *mongo.Database) *MongoAddressRepository {
	return &MongoAddressRepository{col: db.Collection("addresses")}
}

func (m *MongoAddressRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.AddressBook, error) {
	var res model.AddressBook
	err := m.col.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindAddress busca una dirección puntual dentro de la libreta del dueño.
func (m *MongoAddressRepository) FindAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) (*model.Address, error) {
	book, err := m.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range book.Addresses {
		if book.Addresses[i].ID == addressID {
			return &book.Addresses[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *MongoAddressRepository) AddAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error {
	if addr.ID.IsZero() {
		addr.ID = primitive.NewObjectID()
	}
	filter := bson.M{"owner_id": ownerID}
	update := bson.M{"$push": bson.M{"addresses": addr}}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoAddressRepository) UpdateAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error {
	filter := bson.M{
		"owner_id":      ownerID,
		"addresses._id": addr.ID,
	}
	update := bson.M{
		"$set": bson.M{"addresses.$": addr},
	}
	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoAddressRepository) RemoveAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) error {
	filter := bson.M{"owner_id": ownerID}
	update := bson.M{
		"$pull": bson.M{"addresses": bson.M{"_id": addressID}},
	}
	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoAddressRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	return err
}
