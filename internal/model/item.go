package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"itemId"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	MRP             float64            `bson:"mrp" json:"mrp"`
	DiscountedPrice float64            `bson:"discounted_price" json:"discountedPrice"`
	CategoryID      primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// Detalle del artículo: imágenes agrupadas por color y talles disponibles.
type ItemDetail struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemID        primitive.ObjectID `bson:"item_id" json:"itemId"`
	ImagesByColor []ColorImages      `bson:"images_by_color" json:"imagesByColor"`
	Sizes         []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
}

type ColorImages struct {
	Color  string      `bson:"color" json:"color"`
	Images []ItemImage `bson:"images" json:"images"`
}

// Prioridad más baja = imagen representativa del color.
type ItemImage struct {
	URL      string `bson:"url" json:"url"`
	Priority int    `bson:"priority" json:"priority"`
}
