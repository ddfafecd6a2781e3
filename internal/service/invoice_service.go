package service

import (
	"context"
	"errors"

	"nanocart/internal/model"
	"nanocart/internal/pdf"
	"nanocart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvoiceNotFound = errors.New("factura no encontrada")

type InvoiceService struct {
	repo InvoiceRepository
}

func NewInvoiceService(repo InvoiceRepository) *InvoiceService {
	return &InvoiceService{repo: repo}
}

// GetByOrder devuelve la factura en JSON; el dueño sólo ve la suya.
func (s *InvoiceService) GetByOrder(ctx context.Context, orderID, actorID primitive.ObjectID, isAdmin bool) (*model.Invoice, error) {
	inv, err := s.repo.FindByOrderID(ctx, orderID)
	if err == repository.ErrNotFound {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && inv.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return inv, nil
}

// RenderPDF arma el PDF de la factura para descarga directa.
func (s *InvoiceService) RenderPDF(ctx context.Context, orderID, actorID primitive.ObjectID, isAdmin bool) ([]byte, string, error) {
	inv, err := s.GetByOrder(ctx, orderID, actorID, isAdmin)
	if err != nil {
		return nil, "", err
	}
	out, err := pdf.RenderInvoice(inv)
	if err != nil {
		return nil, "", err
	}
	return out, inv.InvoiceNumber + ".pdf", nil
}
