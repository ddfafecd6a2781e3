package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/rabbit"
	"nanocart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Interfaces que deben implementar los repositorios
type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]*model.Order, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]*model.Order, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string, record model.StatusRecord) error
	SetLineItemReturn(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ReturnInfo) error
	SetLineItemExchange(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ExchangeInfo) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	HasNonTerminal(ctx context.Context, ownerID primitive.ObjectID) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error
	Revenue(ctx context.Context, from, to time.Time) (*repository.RevenueSummary, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]repository.DailyRevenue, error)
}

type UserRepository interface {
	Insert(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PartnerRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Partner, error)
	FindByPhone(ctx context.Context, phone string) (*model.Partner, error)
}

type AddressRepository interface {
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.AddressBook, error)
	FindAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) (*model.Address, error)
	AddAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error
	UpdateAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error
	RemoveAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error
}

type ItemRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Item, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Item, error)
	FindDetailByItemID(ctx context.Context, itemID primitive.ObjectID) (*model.ItemDetail, error)
}

type InvoiceRepository interface {
	Insert(ctx context.Context, inv *model.Invoice) error
	FindByOrderID(ctx context.Context, orderID primitive.ObjectID) (*model.Invoice, error)
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error
}

// CouponApplier lo implementa CouponService; el checkout sólo necesita
// esta operación.
type CouponApplier interface {
	Apply(ctx context.Context, code string, userID primitive.ObjectID, total float64) (*dto.ApplyCouponResponse, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event rabbit.OrderEvent) error
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("no se puede cambiar el estado de una orden en estado final")
	ErrNotDelivered      = errors.New("la orden todavía no fue entregada")
	ErrLineItemNotFound  = errors.New("renglón no encontrado en la orden")
	ErrBadPickupAddress  = errors.New("la dirección de retiro no pertenece al dueño de la orden")
	ErrEmptyOrder        = errors.New("la orden no tiene renglones")
)

type OrderService struct {
	repo      OrderRepository
	users     UserRepository
	partners  PartnerRepository
	addresses AddressRepository
	items     ItemRepository
	invoices  InvoiceRepository
	coupons   CouponApplier
	events    EventPublisher
	log       *zap.Logger
}

func NewOrderService(
	repo OrderRepository,
	users UserRepository,
	partners PartnerRepository,
	addresses AddressRepository,
	items ItemRepository,
	invoices InvoiceRepository,
	coupons CouponApplier,
	events EventPublisher,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:      repo,
		users:     users,
		partners:  partners,
		addresses: addresses,
		items:     items,
		invoices:  invoices,
		coupons:   coupons,
		events:    events,
		log:       log,
	}
}

// Estados válidos (por nombre). No hay catálogo en BD.
var validStates = map[string]bool{
	model.OrderPending:    true,
	model.OrderDispatched: true,
	model.OrderDelivered:  true,
	model.OrderCancelled:  true,
	model.OrderReturned:   true,
}

// Transiciones permitidas para admin y dueño
var adminTransitions = map[string][]string{
	model.OrderPending:    {model.OrderDispatched, model.OrderCancelled},
	model.OrderDispatched: {model.OrderDelivered},
	model.OrderDelivered:  {model.OrderReturned},
}

var userTransitions = map[string][]string{
	model.OrderPending: {model.OrderCancelled},
}

// Estados finales
var finalStates = map[string]bool{
	model.OrderCancelled: true,
	model.OrderDelivered: false, // puede pasar a Returned
	model.OrderReturned:  true,
}

func isValidState(s string) bool {
	return validStates[s]
}

// Checkout crea la orden a partir de los renglones del request, aplica el
// cupón si vino uno, emite la factura y publica el evento.
func (s *OrderService) Checkout(ctx context.Context, ownerID primitive.ObjectID, role model.Role, req dto.CheckoutRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	shippingID, err := primitive.ObjectIDFromHex(req.ShippingAddressID)
	if err != nil {
		return nil, fmt.Errorf("shippingAddressId inválido: %w", err)
	}
	// La dirección de envío tiene que existir en la libreta del comprador.
	if _, err := s.addresses.FindAddress(ctx, ownerID, shippingID); err != nil {
		return nil, ErrBadPickupAddress
	}

	ids := make([]primitive.ObjectID, 0, len(req.Items))
	for _, line := range req.Items {
		id, err := primitive.ObjectIDFromHex(line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("itemId inválido: %w", err)
		}
		ids = append(ids, id)
	}

	catalog, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var total float64
	lineItems := make([]model.LineItem, 0, len(req.Items))
	for i, line := range req.Items {
		item, ok := catalog[ids[i]]
		if !ok {
			return nil, fmt.Errorf("artículo %s no existe", line.ItemID)
		}
		price := item.DiscountedPrice
		total += price * float64(line.Quantity)
		lineItems = append(lineItems, model.LineItem{
			ItemID:    ids[i],
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			SKU:       line.SKU,
			UnitPrice: price,
		})
	}

	order := &model.Order{
		OwnerID:           ownerID,
		OwnerRole:         role,
		Items:             lineItems,
		ShippingAddressID: shippingID,
		Status:            model.OrderPending,
		PaymentStatus:     req.PaymentStatus,
		TotalAmount:       total,
	}

	if req.CouponCode != "" {
		applied, err := s.coupons.Apply(ctx, req.CouponCode, ownerID, total)
		if err != nil {
			return nil, err
		}
		order.CouponCode = applied.Code
		order.DiscountAmount = applied.CalculatedDiscount
		order.TotalAmount = applied.PayableAmount
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}

	if err := s.issueInvoice(ctx, order, total); err != nil {
		// La factura no voltea el checkout; la orden ya está persistida.
		s.log.Error("no se pudo emitir la factura", zap.String("order", order.ID.Hex()), zap.Error(err))
	}

	s.publish(ctx, rabbit.EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) issueInvoice(ctx context.Context, order *model.Order, subtotal float64) error {
	lines := make([]model.InvoiceLine, 0, len(order.Items))
	for _, li := range order.Items {
		name := ""
		if item, err := s.items.FindByID(ctx, li.ItemID); err == nil {
			name = item.Name
		}
		lines = append(lines, model.InvoiceLine{
			Name:      name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Amount:    li.UnitPrice * float64(li.Quantity),
		})
	}

	inv := &model.Invoice{
		InvoiceNumber: fmt.Sprintf("NC-%s", order.ID.Hex()[18:]),
		OrderID:       order.ID,
		OwnerID:       order.OwnerID,
		Lines:         lines,
		Subtotal:      subtotal,
		Discount:      order.DiscountAmount,
		Total:         order.TotalAmount,
	}
	if buyer, err := s.users.FindByID(ctx, order.OwnerID); err == nil {
		inv.BuyerName = buyer.Name
		inv.BuyerPhone = buyer.Phone
	}
	return s.invoices.Insert(ctx, inv)
}

func (s *OrderService) publish(ctx context.Context, event string, order *model.Order) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, rabbit.OrderEvent{
		Event:   event,
		OrderID: order.ID.Hex(),
		OwnerID: order.OwnerID.Hex(),
		Status:  order.Status,
	})
	if err != nil {
		s.log.Warn("no se pudo publicar el evento", zap.String("event", event), zap.Error(err))
	}
}

// Getters
func (s *OrderService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) GetAll(ctx context.Context, page, limit int) ([]*model.Order, error) {
	return s.repo.FindAll(ctx, page, limit)
}

func (s *OrderService) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]*model.Order, error) {
	return s.repo.FindByOwner(ctx, ownerID, page, limit)
}

func (s *OrderService) GetByStatus(ctx context.Context, status string, page, limit int) ([]*model.Order, error) {
	if !isValidState(status) {
		return nil, ErrInvalidTransition
	}
	return s.repo.FindByStatus(ctx, status, page, limit)
}

// CountsByStatus devuelve cuántas órdenes hay en cada estado.
func (s *OrderService) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(validStates))
	for state := range validStates {
		n, err := s.repo.CountByStatus(ctx, state)
		if err != nil {
			return nil, err
		}
		out[state] = n
	}
	return out, nil
}

// UpdateStatus valida y realiza la transición entre estados según las reglas de negocio.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus, reason string, actorID primitive.ObjectID, isAdmin bool) error {
	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	current := ord.Status

	// Mismo estado: no hay nada que hacer
	if current == newStatus {
		return nil
	}
	if finalStates[current] {
		return ErrFinalState
	}
	if !isValidState(newStatus) {
		return ErrInvalidTransition
	}

	isOwner := ord.OwnerID == actorID

	allowedAsAdmin := isAdmin && contains(adminTransitions[current], newStatus)
	allowedAsOwner := isOwner && contains(userTransitions[current], newStatus)

	if !isAdmin && !isOwner {
		return ErrForbidden
	}
	if !allowedAsAdmin && !allowedAsOwner {
		return ErrInvalidTransition
	}

	record := model.StatusRecord{
		Status:    newStatus,
		Reason:    reason,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Current:   true,
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus, record); err != nil {
		return err
	}

	ord.Status = newStatus
	s.publish(ctx, rabbit.EventOrderStatusChanged, ord)
	return nil
}

// RequestReturn embebe el sub-registro de devolución en el renglón.
// Sólo sobre órdenes entregadas, y la dirección de retiro tiene que ser
// del mismo dueño.
func (s *OrderService) RequestReturn(ctx context.Context, orderID primitive.ObjectID, actorID primitive.ObjectID, req dto.ReturnRequest) error {
	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.OwnerID != actorID {
		return ErrForbidden
	}
	if ord.Status != model.OrderDelivered {
		return ErrNotDelivered
	}

	lineItemID, err := s.findLineItem(ord, req.LineItemID)
	if err != nil {
		return err
	}

	if err := s.validatePickup(ctx, ord.OwnerID, req.PickupLocationID); err != nil {
		return err
	}

	info := &model.ReturnInfo{
		Reason:           req.Reason,
		PickupLocationID: req.PickupLocationID,
		Status:           "Requested",
		RequestedAt:      time.Now().UTC(),
	}
	if err := s.repo.SetLineItemReturn(ctx, orderID, lineItemID, info); err != nil {
		return err
	}

	s.publish(ctx, rabbit.EventOrderStatusChanged, ord)
	return nil
}

func (s *OrderService) RequestExchange(ctx context.Context, orderID primitive.ObjectID, actorID primitive.ObjectID, req dto.ExchangeRequest) error {
	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.OwnerID != actorID {
		return ErrForbidden
	}
	if ord.Status != model.OrderDelivered {
		return ErrNotDelivered
	}

	lineItemID, err := s.findLineItem(ord, req.LineItemID)
	if err != nil {
		return err
	}

	if err := s.validatePickup(ctx, ord.OwnerID, req.PickupLocationID); err != nil {
		return err
	}

	info := &model.ExchangeInfo{
		Reason:           req.Reason,
		PickupLocationID: req.PickupLocationID,
		NewSize:          req.NewSize,
		Status:           "Requested",
		RequestedAt:      time.Now().UTC(),
	}
	if err := s.repo.SetLineItemExchange(ctx, orderID, lineItemID, info); err != nil {
		return err
	}

	s.publish(ctx, rabbit.EventOrderStatusChanged, ord)
	return nil
}

func (s *OrderService) findLineItem(ord *model.Order, rawID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return primitive.NilObjectID, ErrLineItemNotFound
	}
	for _, li := range ord.Items {
		if li.ID == id {
			return id, nil
		}
	}
	return primitive.NilObjectID, ErrLineItemNotFound
}

// validatePickup exige que, si viene referencia de retiro, pertenezca a
// la libreta del mismo dueño de la orden.
func (s *OrderService) validatePickup(ctx context.Context, ownerID primitive.ObjectID, rawID string) error {
	if rawID == "" {
		return nil
	}
	addrID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return ErrBadPickupAddress
	}
	if _, err := s.addresses.FindAddress(ctx, ownerID, addrID); err != nil {
		return ErrBadPickupAddress
	}
	return nil
}

func (s *OrderService) Revenue(ctx context.Context, from, to time.Time, byDay bool) (interface{}, error) {
	if byDay {
		return s.repo.RevenueByDay(ctx, from, to)
	}
	return s.repo.Revenue(ctx, from, to)
}

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
