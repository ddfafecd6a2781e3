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

// Estados terminales: una orden acá ya no cambia ni bloquea la baja de cuenta.
var TerminalStatuses = []string{model.OrderCancelled, model.OrderDelivered}

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (m *MongoOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now
	o.UpdatedAt = now
	// Primer estado en historial
	o.History = []model.StatusRecord{
		{
			Status:    o.Status,
			ActorID:   o.OwnerID,
			Reason:    "Orden creada",
			Timestamp: now,
			Current:   true,
		},
	}
	for i := range o.Items {
		if o.Items[i].ID.IsZero() {
			o.Items[i].ID = primitive.NewObjectID()
		}
	}
	_, err := m.col.InsertOne(ctx, o)
	return err
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoOrderRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*model.Order, error) {
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

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoOrderRepository) FindAll(ctx context.Context, page, limit int) ([]*model.Order, error) {
	return m.find(ctx, bson.M{}, page, limit)
}

func (m *MongoOrderRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]*model.Order, error) {
	return m.find(ctx, bson.M{"owner_id": ownerID}, page, limit)
}

func (m *MongoOrderRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*model.Order, error) {
	return m.find(ctx, bson.M{"status": status}, page, limit)
}

func (m *MongoOrderRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return m.col.CountDocuments(ctx, filter)
}

func (m *MongoOrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return m.Count(ctx, bson.M{"status": status})
}

// UpdateStatus actualiza el estado y el historial en dos pasos,
// desmarcando primero el registro actual.
func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string, record model.StatusRecord) error {

	// PASO 1: desmarcar el actual
	filter := bson.M{
		"_id":             orderID,
		"history.current": true,
	}
	update1 := bson.M{
		"$set": bson.M{
			"history.$.current": false,
		},
	}

	r1, err := m.col.UpdateOne(ctx, filter, update1)
	if err != nil {
		return err
	}
	if r1.MatchedCount == 0 {
		return ErrNotFound
	}

	// PASO 2: actualizar estado + pushear nuevo registro
	update2 := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"history": record,
		},
	}

	_, err = m.col.UpdateOne(ctx, bson.M{"_id": orderID}, update2)
	return err
}

// SetLineItemReturn embebe el sub-registro de devolución en el renglón indicado.
func (m *MongoOrderRepository) SetLineItemReturn(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ReturnInfo) error {
	filter := bson.M{"_id": orderID, "items._id": lineItemID}
	update := bson.M{
		"$set": bson.M{
			"items.$.return_info": info,
			"updated_at":          time.Now().UTC(),
		},
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

func (m *MongoOrderRepository) SetLineItemExchange(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ExchangeInfo) error {
	filter := bson.M{"_id": orderID, "items._id": lineItemID}
	update := bson.M{
		"$set": bson.M{
			"items.$.exchange_info": info,
			"updated_at":            time.Now().UTC(),
		},
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

// HasNonTerminal indica si el dueño tiene órdenes fuera del conjunto terminal.
func (m *MongoOrderRepository) HasNonTerminal(ctx context.Context, ownerID primitive.ObjectID) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{
		"owner_id": ownerID,
		"status":   bson.M{"$nin": TerminalStatuses},
	})
	return n > 0, err
}

func (m *MongoOrderRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	return err
}

type RevenueSummary struct {
	TotalRevenue float64 `bson:"total_revenue" json:"totalRevenue"`
	OrderCount   int64   `bson:"order_count" json:"orderCount"`
}

type DailyRevenue struct {
	Day          string  `bson:"_id" json:"day"`
	TotalRevenue float64 `bson:"total_revenue" json:"totalRevenue"`
	OrderCount   int64   `bson:"order_count" json:"orderCount"`
}

// Revenue agrega las órdenes entregadas dentro del rango.
func (m *MongoOrderRepository) Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     model.OrderDelivered,
			"created_at": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total_revenue": bson.M{"$sum": "$total_amount"},
			"order_count":   bson.M{"$sum": 1},
		}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var res RevenueSummary
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		return &res, cur.Err()
	}
	// Sin órdenes en el rango: resumen en cero, no error.
	return &RevenueSummary{}, cur.Err()
}

// RevenueByDay agrupa la facturación entregada por día (YYYY-MM-DD).
func (m *MongoOrderRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]DailyRevenue, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     model.OrderDelivered,
			"created_at": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"total_revenue": bson.M{"$sum": "$total_amount"},
			"order_count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DailyRevenue
	for cur.Next(ctx) {
		var v DailyRevenue
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}
