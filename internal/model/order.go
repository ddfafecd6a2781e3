package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de la orden
const (
	OrderPending    = "Pending"
	OrderDispatched = "Dispatched"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
	OrderReturned   = "Returned"
)

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"orderId"`
	OwnerID           primitive.ObjectID `bson:"owner_id,omitempty" json:"ownerId"`
	OwnerRole         Role               `bson:"owner_role" json:"ownerRole"` // User o Partner
	Items             []LineItem         `bson:"items" json:"items"`
	ShippingAddressID primitive.ObjectID `bson:"shipping_address_id,omitempty" json:"shippingAddressId"`
	Status            string             `bson:"status" json:"status"`
	PaymentStatus     string             `bson:"payment_status" json:"paymentStatus"`
	TotalAmount       float64            `bson:"total_amount" json:"totalAmount"`
	CouponCode        string             `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	DiscountAmount    float64            `bson:"discount_amount,omitempty" json:"discountAmount,omitempty"`
	History           []StatusRecord     `bson:"history" json:"history"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// LineItem va embebido dentro de la orden.
type LineItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"lineItemId"`
	ItemID       primitive.ObjectID `bson:"item_id" json:"itemId"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Size         string             `bson:"size,omitempty" json:"size,omitempty"`
	Color        string             `bson:"color,omitempty" json:"color,omitempty"`
	SKU          string             `bson:"sku,omitempty" json:"sku,omitempty"`
	UnitPrice    float64            `bson:"unit_price" json:"unitPrice"`
	ReturnInfo   *ReturnInfo        `bson:"return_info,omitempty" json:"returnInfo,omitempty"`
	ExchangeInfo *ExchangeInfo      `bson:"exchange_info,omitempty" json:"exchangeInfo,omitempty"`
}

// Sub-registro de devolución. PickupLocationID referencia una dirección
// del mismo dueño de la orden; puede quedar sin expandir.
type ReturnInfo struct {
	Reason           string    `bson:"reason" json:"reason"`
	PickupLocationID string    `bson:"pickup_location_id,omitempty" json:"pickupLocationId,omitempty"`
	Status           string    `bson:"status" json:"status"`
	RequestedAt      time.Time `bson:"requested_at" json:"requestedAt"`
}

type ExchangeInfo struct {
	Reason           string    `bson:"reason" json:"reason"`
	PickupLocationID string    `bson:"pickup_location_id,omitempty" json:"pickupLocationId,omitempty"`
	NewSize          string    `bson:"new_size,omitempty" json:"newSize,omitempty"`
	Status           string    `bson:"status" json:"status"`
	RequestedAt      time.Time `bson:"requested_at" json:"requestedAt"`
}

type StatusRecord struct {
	Status    string             `bson:"status" json:"status"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ActorID   primitive.ObjectID `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	// Para marcar cuál es el último
	Current bool `bson:"current" json:"current"`
}
