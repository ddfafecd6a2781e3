package controller

import (
	"errors"
	"net/http"

	"nanocart/internal/dto"
	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponController struct {
	Service *service.CouponService
}

func NewCouponController(s *service.CouponService) *CouponController {
	return &CouponController{Service: s}
}

// POST /admin/coupons
func (ctl *CouponController) Create(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	coupon, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "coupon created", coupon)
}

// GET /admin/coupons
func (ctl *CouponController) List(c *gin.Context) {
	page, limit := pagination(c)

	coupons, total, err := ctl.Service.List(c.Request.Context(), page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch coupons", err)
		return
	}
	response.OK(c, http.StatusOK, "coupons fetched", gin.H{
		"coupons": coupons,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// PATCH /admin/coupons/:couponId
func (ctl *CouponController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("couponId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid couponId")
		return
	}

	var req dto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	coupon, err := ctl.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "coupon updated", coupon)
}

// DELETE /admin/coupons/:couponId
func (ctl *CouponController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("couponId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid couponId")
		return
	}

	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "coupon deleted", nil)
}

// POST /coupons/apply
func (ctl *CouponController) Apply(c *gin.Context) {
	var req dto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	res, err := ctl.Service.Apply(c.Request.Context(), req.Code, actor, req.TotalAmount)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "coupon applied", res)
}

func (ctl *CouponController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponExists):
		response.ErrorWith(c, http.StatusConflict, "duplicate coupon code", err)
	case errors.Is(err, service.ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, "coupon not found")
	case errors.Is(err, service.ErrCouponAlreadyUsed):
		response.ErrorWith(c, http.StatusForbidden, "coupon already used", err)
	case errors.Is(err, service.ErrCouponInactive),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrBelowMinAmount):
		response.ErrorWith(c, http.StatusBadRequest, "coupon rejected", err)
	default:
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
	}
}
