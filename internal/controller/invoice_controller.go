package controller

import (
	"errors"
	"fmt"
	"net/http"

	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceController struct {
	Service *service.InvoiceService
}

func NewInvoiceController(s *service.InvoiceService) *InvoiceController {
	return &InvoiceController{Service: s}
}

// GET /orders/:orderId/invoice
func (ctl *InvoiceController) GetByOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	inv, err := ctl.Service.GetByOrder(c.Request.Context(), orderID, actor, isAdmin(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "invoice fetched", inv)
}

// GET /orders/:orderId/invoice/pdf — descarga directa del PDF
func (ctl *InvoiceController) DownloadPDF(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid orderId")
		return
	}
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	out, filename, err := ctl.Service.RenderPDF(c.Request.Context(), orderID, actor, isAdmin(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

func (ctl *InvoiceController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		response.Error(c, http.StatusNotFound, "invoice not found")
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, "you do not own this invoice")
	default:
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
	}
}
