package service

import (
	"context"
	"strings"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline de enriquecimiento: hidrata órdenes crudas con dueño,
// dirección de envío, datos de catálogo e imágenes por color, para
// serializar directo al cliente. Todas las resoluciones son lecturas
// independientes; un fallo parcial nunca voltea el lote.

const ownerUnresolved = "owner could not be resolved"

// EnrichOrder hidrata una sola orden. El segundo parámetro se acepta por
// compatibilidad de firma y se ignora: el dueño se resuelve por registro.
func (s *OrderService) EnrichOrder(ctx context.Context, order *model.Order, _ string) (*dto.EnrichedOrder, error) {
	out, err := s.EnrichOrders(ctx, []*model.Order{order}, "")
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EnrichOrders hidrata un lote. La salida espeja la entrada: mismo largo,
// out[i] corresponde a orders[i]. Las órdenes se resuelven en paralelo.
func (s *OrderService) EnrichOrders(ctx context.Context, orders []*model.Order, _ string) ([]*dto.EnrichedOrder, error) {
	out := make([]*dto.EnrichedOrder, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, o := range orders {
		i, o := i, o
		g.Go(func() error {
			// enrichOne nunca devuelve error: los fallos quedan
			// marcados dentro de la vista.
			out[i] = s.enrichOne(gctx, o)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) enrichOne(ctx context.Context, o *model.Order) *dto.EnrichedOrder {
	view := &dto.EnrichedOrder{
		OrderID:        o.ID.Hex(),
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		TotalAmount:    o.TotalAmount,
		CouponCode:     o.CouponCode,
		DiscountAmount: o.DiscountAmount,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	// Dueño: si la referencia falta o no resuelve, la orden sale igual,
	// marcada con el error, y el lote sigue.
	owner, err := s.resolveOwner(ctx, o)
	if err != nil {
		view.OwnerError = ownerUnresolved
	} else {
		view.Owner = owner
	}

	// Dirección de envío: ausente si no matchea, nunca error.
	if !o.ShippingAddressID.IsZero() {
		if addr, err := s.addresses.FindAddress(ctx, o.OwnerID, o.ShippingAddressID); err == nil {
			view.ShippingAddress = addr
		}
	}

	view.Items = s.enrichLineItems(ctx, o)
	return view
}

func (s *OrderService) resolveOwner(ctx context.Context, o *model.Order) (*dto.OwnerSummary, error) {
	if o.OwnerID.IsZero() {
		return nil, repository.ErrNotFound
	}

	if o.OwnerRole == model.RolePartner {
		p, err := s.partners.FindByID(ctx, o.OwnerID)
		if err != nil {
			return nil, err
		}
		return &dto.OwnerSummary{
			Name:  p.Name,
			Email: p.Email,
			Phone: p.Phone,
			Role:  model.RolePartner,
		}, nil
	}

	u, err := s.users.FindByID(ctx, o.OwnerID)
	if err != nil {
		return nil, err
	}
	return &dto.OwnerSummary{
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
	}, nil
}

func (s *OrderService) enrichLineItems(ctx context.Context, o *model.Order) []dto.EnrichedLineItem {
	// Los datos de catálogo salen de un solo viaje por orden.
	ids := make([]primitive.ObjectID, 0, len(o.Items))
	for _, li := range o.Items {
		ids = append(ids, li.ItemID)
	}
	catalog, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("lookup de catálogo falló durante el enriquecimiento",
			zap.String("order", o.ID.Hex()), zap.Error(err))
		catalog = nil
	}

	out := make([]dto.EnrichedLineItem, 0, len(o.Items))
	for _, li := range o.Items {
		view := dto.EnrichedLineItem{
			LineItemID: li.ID.Hex(),
			ItemID:     li.ItemID.Hex(),
			UnitPrice:  li.UnitPrice,
			Quantity:   li.Quantity,
			Size:       li.Size,
			Color:      li.Color,
			SKU:        li.SKU,
		}

		if item, ok := catalog[li.ItemID]; ok && item != nil {
			view.Name = item.Name
			view.MRP = item.MRP
		}

		// Imagen representativa: grupo de color (case-insensitive),
		// prioridad más baja gana, empates por orden del arreglo.
		if li.Color != "" {
			if detail, err := s.items.FindDetailByItemID(ctx, li.ItemID); err == nil {
				view.ImageURL = representativeImage(detail, li.Color)
			}
		}

		if li.ReturnInfo != nil {
			view.ReturnInfo = &dto.EnrichedReturnInfo{
				Reason:         li.ReturnInfo.Reason,
				Status:         li.ReturnInfo.Status,
				RequestedAt:    li.ReturnInfo.RequestedAt,
				PickupLocation: s.resolvePickup(ctx, o, li.ReturnInfo.PickupLocationID),
			}
		}
		if li.ExchangeInfo != nil {
			view.ExchangeInfo = &dto.EnrichedExchangeInfo{
				Reason:         li.ExchangeInfo.Reason,
				Status:         li.ExchangeInfo.Status,
				NewSize:        li.ExchangeInfo.NewSize,
				RequestedAt:    li.ExchangeInfo.RequestedAt,
				PickupLocation: s.resolvePickup(ctx, o, li.ExchangeInfo.PickupLocationID),
			}
		}

		out = append(out, view)
	}
	return out
}

// resolvePickup expande la referencia de retiro contra la libreta del
// mismo dueño. Si el id es inválido, no existe o el lookup falla, se
// devuelve la referencia original tal como estaba: se loguea y no se
// propaga.
func (s *OrderService) resolvePickup(ctx context.Context, o *model.Order, rawID string) interface{} {
	if rawID == "" {
		return nil
	}

	addrID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		s.log.Debug("referencia de retiro malformada",
			zap.String("order", o.ID.Hex()), zap.String("pickup", rawID))
		return rawID
	}

	addr, err := s.addresses.FindAddress(ctx, o.OwnerID, addrID)
	if err != nil {
		s.log.Debug("referencia de retiro sin resolver",
			zap.String("order", o.ID.Hex()), zap.String("pickup", rawID), zap.Error(err))
		return rawID
	}
	return addr
}

// representativeImage elige la imagen de menor prioridad del grupo cuyo
// color matchea sin distinguir mayúsculas. Vacío si no hay grupo o imágenes.
func representativeImage(detail *model.ItemDetail, color string) string {
	for _, group := range detail.ImagesByColor {
		if !strings.EqualFold(group.Color, color) {
			continue
		}
		best := ""
		bestPriority := 0
		for i, img := range group.Images {
			if i == 0 || img.Priority < bestPriority {
				best = img.URL
				bestPriority = img.Priority
			}
		}
		return best
	}
	return ""
}
