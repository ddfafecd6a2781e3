package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DiscountPercentage = "Percentage"
	DiscountFlatAmount = "FlatAmount"
)

type Coupon struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"couponId"`
	Code           string               `bson:"code" json:"code"` // siempre en mayúsculas
	DiscountType   string               `bson:"discount_type" json:"discountType"`
	DiscountValue  float64              `bson:"discount_value" json:"discountValue"`
	MinOrderAmount float64              `bson:"min_order_amount,omitempty" json:"minOrderAmount,omitempty"`
	ExpiresAt      time.Time            `bson:"expires_at" json:"expiresAt"`
	IsActive       bool                 `bson:"is_active" json:"isActive"`
	UsedBy         []primitive.ObjectID `bson:"used_by,omitempty" json:"-"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
}
