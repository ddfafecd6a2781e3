package dto

import (
	"time"

	"nanocart/internal/model"
)

type CheckoutRequest struct {
	Items             []CheckoutLine `json:"items" binding:"required,min=1,dive"`
	ShippingAddressID string         `json:"shippingAddressId" binding:"required"`
	CouponCode        string         `json:"couponCode"`
	PaymentStatus     string         `json:"paymentStatus"`
}

type CheckoutLine struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	SKU      string `json:"sku"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type ReturnRequest struct {
	LineItemID       string `json:"lineItemId" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	PickupLocationID string `json:"pickupLocationId"`
}

type ExchangeRequest struct {
	LineItemID       string `json:"lineItemId" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	PickupLocationID string `json:"pickupLocationId"`
	NewSize          string `json:"newSize"`
}

// Vista hidratada de la orden: espeja la orden persistida con las
// referencias ya resueltas, lista para serializar.
type EnrichedOrder struct {
	OrderID         string             `json:"orderId"`
	Owner           *OwnerSummary      `json:"owner,omitempty"`
	OwnerError      string             `json:"ownerError,omitempty"`
	Items           []EnrichedLineItem `json:"items"`
	ShippingAddress *model.Address     `json:"shippingAddress,omitempty"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"paymentStatus"`
	TotalAmount     float64            `json:"totalAmount"`
	CouponCode      string             `json:"couponCode,omitempty"`
	DiscountAmount  float64            `json:"discountAmount,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type OwnerSummary struct {
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
	Phone string     `json:"phone"`
	Role  model.Role `json:"role"`
}

type EnrichedLineItem struct {
	LineItemID   string                `json:"lineItemId"`
	ItemID       string                `json:"itemId"`
	Name         string                `json:"name,omitempty"`
	UnitPrice    float64               `json:"unitPrice"`
	MRP          float64               `json:"mrp,omitempty"`
	Quantity     int                   `json:"quantity"`
	Size         string                `json:"size,omitempty"`
	Color        string                `json:"color,omitempty"`
	SKU          string                `json:"sku,omitempty"`
	ImageURL     string                `json:"imageUrl,omitempty"`
	ReturnInfo   *EnrichedReturnInfo   `json:"returnInfo,omitempty"`
	ExchangeInfo *EnrichedExchangeInfo `json:"exchangeInfo,omitempty"`
}

// PickupLocation lleva la dirección expandida cuando la resolución
// anduvo, o el id crudo original cuando no.
type EnrichedReturnInfo struct {
	Reason         string      `json:"reason"`
	Status         string      `json:"status"`
	PickupLocation interface{} `json:"pickupLocation,omitempty"`
	RequestedAt    time.Time   `json:"requestedAt"`
}

type EnrichedExchangeInfo struct {
	Reason         string      `json:"reason"`
	Status         string      `json:"status"`
	NewSize        string      `json:"newSize,omitempty"`
	PickupLocation interface{} `json:"pickupLocation,omitempty"`
	RequestedAt    time.Time   `json:"requestedAt"`
}
