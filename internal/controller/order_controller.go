package controller

import (
	"errors"
	"net/http"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"
	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders — checkout
func (ctl *OrderController) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	owner, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}
	role := model.Role(c.GetString("userRole"))

	order, err := ctl.Service.Checkout(c.Request.Context(), owner, role, req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "order placed", order)
}

// GET /orders/mine — órdenes del actor, hidratadas
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	owner, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}
	page, limit := pagination(c)

	orders, err := ctl.Service.GetByOwner(c.Request.Context(), owner, page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch orders", err)
		return
	}

	enriched, err := ctl.Service.EnrichOrders(c.Request.Context(), orders, owner.Hex())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not enrich orders", err)
		return
	}
	response.OK(c, http.StatusOK, "orders fetched", enriched)
}

// GET /orders/:orderId — una orden hidratada; dueño o admin
func (ctl *OrderController) GetOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}

	order, err := ctl.Service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	actor, _ := actorID(c)
	if !isAdmin(c) && order.OwnerID != actor {
		response.Error(c, http.StatusForbidden, "you cannot view another user's order")
		return
	}

	enriched, err := ctl.Service.EnrichOrder(c.Request.Context(), order, order.OwnerID.Hex())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not enrich order", err)
		return
	}
	response.OK(c, http.StatusOK, "order fetched", enriched)
}

// PATCH /orders/:orderId/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	err = ctl.Service.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Reason, actor, isAdmin(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "status updated", nil)
}

// POST /orders/:orderId/return
func (ctl *OrderController) RequestReturn(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}

	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	if err := ctl.Service.RequestReturn(c.Request.Context(), orderID, actor, req); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "return requested", nil)
}

// POST /orders/:orderId/exchange
func (ctl *OrderController) RequestExchange(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	if err := ctl.Service.RequestExchange(c.Request.Context(), orderID, actor, req); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "exchange requested", nil)
}

// GET /admin/orders/all — todas las órdenes, hidratadas
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := pagination(c)

	orders, err := ctl.Service.GetAll(c.Request.Context(), page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch orders", err)
		return
	}

	enriched, err := ctl.Service.EnrichOrders(c.Request.Context(), orders, "")
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not enrich orders", err)
		return
	}
	response.OK(c, http.StatusOK, "orders fetched", enriched)
}

// GET /admin/orders/status/:status
func (ctl *OrderController) GetOrdersByStatus(c *gin.Context) {
	page, limit := pagination(c)

	orders, err := ctl.Service.GetByStatus(c.Request.Context(), c.Param("status"), page, limit)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	enriched, err := ctl.Service.EnrichOrders(c.Request.Context(), orders, "")
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not enrich orders", err)
		return
	}
	response.OK(c, http.StatusOK, "orders fetched", enriched)
}

// GET /admin/orders/counts
func (ctl *OrderController) CountsByStatus(c *gin.Context) {
	counts, err := ctl.Service.CountsByStatus(c.Request.Context())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not count orders", err)
		return
	}
	response.OK(c, http.StatusOK, "order counts fetched", counts)
}

// GET /admin/orders/user/:userId
func (ctl *OrderController) GetOrdersByUser(c *gin.Context) {
	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid userId")
		return
	}
	page, limit := pagination(c)

	orders, err := ctl.Service.GetByOwner(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch orders", err)
		return
	}

	enriched, err := ctl.Service.EnrichOrders(c.Request.Context(), orders, ownerID.Hex())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not enrich orders", err)
		return
	}
	response.OK(c, http.StatusOK, "orders fetched", enriched)
}

// GET /admin/revenue?from=YYYY-MM-DD&to=YYYY-MM-DD&byDay=true
func (ctl *OrderController) Revenue(c *gin.Context) {
	from, to, err := revenueRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date range, expected YYYY-MM-DD")
		return
	}

	out, err := ctl.Service.Revenue(c.Request.Context(), from, to, c.Query("byDay") == "true")
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not compute revenue", err)
		return
	}
	response.OK(c, http.StatusOK, "revenue computed", out)
}

func revenueRange(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()

	from := now.AddDate(0, -1, 0)
	to := now
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Fin de día inclusive
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

// writeError mapea errores de negocio al envelope.
func (ctl *OrderController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrFinalState),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotDelivered),
		errors.Is(err, service.ErrLineItemNotFound),
		errors.Is(err, service.ErrBadPickupAddress),
		errors.Is(err, service.ErrEmptyOrder):
		response.ErrorWith(c, http.StatusBadRequest, "invalid operation", err)
	case errors.Is(err, service.ErrCouponAlreadyUsed):
		response.ErrorWith(c, http.StatusForbidden, "coupon already used", err)
	case errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrCouponInactive),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrBelowMinAmount):
		response.ErrorWith(c, http.StatusBadRequest, "coupon rejected", err)
	default:
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
	}
}
