package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Factura emitida en el checkout. Se guarda denormalizada para que el PDF
// no dependa del catálogo al momento de descargarla.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"invoiceId"`
	InvoiceNumber string             `bson:"invoice_number" json:"invoiceNumber"`
	OrderID       primitive.ObjectID `bson:"order_id" json:"orderId"`
	OwnerID       primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	BuyerName     string             `bson:"buyer_name,omitempty" json:"buyerName,omitempty"`
	BuyerPhone    string             `bson:"buyer_phone,omitempty" json:"buyerPhone,omitempty"`
	Lines         []InvoiceLine      `bson:"lines" json:"lines"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Discount      float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	Total         float64            `bson:"total" json:"total"`
	IssuedAt      time.Time          `bson:"issued_at" json:"issuedAt"`
}

type InvoiceLine struct {
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unitPrice"`
	Amount    float64 `bson:"amount" json:"amount"`
}
