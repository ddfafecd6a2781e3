package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filtro de catálogo: una clave y sus valores ordenados.
type Filter struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"filterId"`
	Key    string             `bson:"key" json:"key"`
	Values []string           `bson:"values" json:"values"`
	Order  int                `bson:"order,omitempty" json:"order,omitempty"`
}

type Banner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"bannerId"`
	Title     string             `bson:"title" json:"title"`
	ImageURL  string             `bson:"image_url" json:"imageUrl"`
	S3Key     string             `bson:"s3_key" json:"-"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Reseña. Las sembradas por admin no tienen UserID y llevan IsSeeded.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"reviewId"`
	ItemID      primitive.ObjectID `bson:"item_id" json:"itemId"`
	UserID      primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	DisplayName string             `bson:"display_name" json:"displayName"`
	Rating      int                `bson:"rating" json:"rating"`
	Text        string             `bson:"text,omitempty" json:"text,omitempty"`
	IsSeeded    bool               `bson:"is_seeded" json:"-"`
	PostedAt    time.Time          `bson:"posted_at" json:"postedAt"`
}

// Entrada "try before you buy": imagen subida por el usuario contra un artículo.
type TBYBEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"tbybId"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	ItemID    primitive.ObjectID `bson:"item_id" json:"itemId"`
	ImageURL  string             `bson:"image_url" json:"imageUrl"`
	S3Key     string             `bson:"s3_key" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`
	Items  []CartLine         `bson:"items" json:"items"`
}

type CartLine struct {
	ItemID   primitive.ObjectID `bson:"item_id" json:"itemId"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Size     string             `bson:"size,omitempty" json:"size,omitempty"`
	Color    string             `bson:"color,omitempty" json:"color,omitempty"`
	SKU      string             `bson:"sku,omitempty" json:"sku,omitempty"`
}

type Wishlist struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	UserID  primitive.ObjectID   `bson:"user_id" json:"userId"`
	ItemIDs []primitive.ObjectID `bson:"item_ids" json:"itemIds"`
}
