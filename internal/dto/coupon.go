package dto

import "time"

type CreateCouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	DiscountType   string    `json:"discountType" binding:"required,oneof=Percentage FlatAmount"`
	DiscountValue  float64   `json:"discountValue" binding:"required,gt=0"`
	MinOrderAmount float64   `json:"minOrderAmount"`
	ExpiresAt      time.Time `json:"expiresAt" binding:"required"`
	IsActive       *bool     `json:"isActive"`
}

type UpdateCouponRequest struct {
	DiscountType   string     `json:"discountType" binding:"omitempty,oneof=Percentage FlatAmount"`
	DiscountValue  *float64   `json:"discountValue"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsActive       *bool      `json:"isActive"`
}

type ApplyCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	TotalAmount float64 `json:"totalAmount" binding:"required,gt=0"`
}

type ApplyCouponResponse struct {
	Code               string  `json:"code"`
	CalculatedDiscount float64 `json:"calculatedDiscount"`
	PayableAmount      float64 `json:"payableAmount"`
}
