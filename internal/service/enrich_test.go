package service

import (
	"context"
	"testing"
	"time"

	"nanocart/internal/model"
	"nanocart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type orderServiceMocks struct {
	orders    *MockOrderRepository
	users     *MockUserRepository
	partners  *MockPartnerRepository
	addresses *MockAddressRepository
	items     *MockItemRepository
	invoices  *MockInvoiceRepository
	coupons   *MockCouponApplier
	events    *MockEventPublisher
}

func newTestOrderService() (*OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orders:    new(MockOrderRepository),
		users:     new(MockUserRepository),
		partners:  new(MockPartnerRepository),
		addresses: new(MockAddressRepository),
		items:     new(MockItemRepository),
		invoices:  new(MockInvoiceRepository),
		coupons:   new(MockCouponApplier),
		events:    new(MockEventPublisher),
	}
	svc := NewOrderService(
		m.orders, m.users, m.partners, m.addresses, m.items,
		m.invoices, m.coupons, m.events, zap.NewNop(),
	)
	return svc, m
}

func TestEnrichOrdersMirrorsInput(t *testing.T) {
	svc, m := newTestOrderService()

	ownerA := primitive.NewObjectID()
	ownerB := primitive.NewObjectID()
	orders := []*model.Order{
		{ID: primitive.NewObjectID(), OwnerID: ownerA, OwnerRole: model.RoleUser, Status: model.OrderPending},
		{ID: primitive.NewObjectID(), OwnerID: ownerB, OwnerRole: model.RoleUser, Status: model.OrderDelivered},
	}

	m.users.On("FindByID", mock.Anything, ownerA).Return(&model.User{Name: "Ana", Phone: "+111"}, nil)
	m.users.On("FindByID", mock.Anything, ownerB).Return(&model.User{Name: "Beto", Phone: "+222"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)

	out, err := svc.EnrichOrders(context.Background(), orders, "")
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	// La salida espeja la entrada: out[i] corresponde a orders[i].
	assert.Equal(t, orders[0].ID.Hex(), out[0].OrderID)
	assert.Equal(t, orders[1].ID.Hex(), out[1].OrderID)
	assert.Equal(t, "Ana", out[0].Owner.Name)
	assert.Equal(t, "Beto", out[1].Owner.Name)
}

func TestEnrichOrdersOwnerUnresolvedDoesNotSinkBatch(t *testing.T) {
	svc, m := newTestOrderService()

	okOwner := primitive.NewObjectID()
	badOwner := primitive.NewObjectID()
	orders := []*model.Order{
		{ID: primitive.NewObjectID(), OwnerID: badOwner, OwnerRole: model.RoleUser},
		{ID: primitive.NewObjectID(), OwnerID: okOwner, OwnerRole: model.RoleUser},
	}

	m.users.On("FindByID", mock.Anything, badOwner).Return(nil, repository.ErrNotFound)
	m.users.On("FindByID", mock.Anything, okOwner).Return(&model.User{Name: "Carla"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)

	out, err := svc.EnrichOrders(context.Background(), orders, "")
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	// La orden sin dueño sale marcada pero sale; la otra sale entera.
	assert.Nil(t, out[0].Owner)
	assert.Equal(t, "owner could not be resolved", out[0].OwnerError)
	assert.NotNil(t, out[1].Owner)
	assert.Empty(t, out[1].OwnerError)
}

func TestEnrichOrderPartnerOwner(t *testing.T) {
	svc, m := newTestOrderService()

	partnerID := primitive.NewObjectID()
	order := &model.Order{ID: primitive.NewObjectID(), OwnerID: partnerID, OwnerRole: model.RolePartner}

	m.partners.On("FindByID", mock.Anything, partnerID).Return(&model.Partner{Name: "Socio", Phone: "+333"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)
	assert.Equal(t, model.RolePartner, out.Owner.Role)
	assert.Equal(t, "Socio", out.Owner.Name)
	m.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestEnrichLineItemRepresentativeImage(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()
	order := &model.Order{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerRole: model.RoleUser,
		Items: []model.LineItem{
			{ID: primitive.NewObjectID(), ItemID: itemID, Quantity: 1, Color: "NAVY"},
		},
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Dora"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{
		itemID: {ID: itemID, Name: "Remera", MRP: 1200},
	}, nil)
	// El match de color no distingue mayúsculas; gana la prioridad más
	// baja, y el empate lo resuelve el orden del arreglo.
	m.items.On("FindDetailByItemID", mock.Anything, itemID).Return(&model.ItemDetail{
		ItemID: itemID,
		ImagesByColor: []model.ColorImages{
			{Color: "red", Images: []model.ItemImage{{URL: "red-a", Priority: 0}}},
			{Color: "navy", Images: []model.ItemImage{
				{URL: "url-c", Priority: 3},
				{URL: "url-b", Priority: 1},
				{URL: "url-d", Priority: 1},
			}},
		},
	}, nil)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "Remera", out.Items[0].Name)
	assert.Equal(t, float64(1200), out.Items[0].MRP)
	assert.Equal(t, "url-b", out.Items[0].ImageURL)
}

func TestEnrichOrderResolvesShippingAddress(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	shippingID := primitive.NewObjectID()
	addr := &model.Address{ID: shippingID, Line1: "Calle Falsa 123", City: "Rosario"}
	order := &model.Order{
		ID:                primitive.NewObjectID(),
		OwnerID:           ownerID,
		OwnerRole:         model.RoleUser,
		ShippingAddressID: shippingID,
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Hilda"}, nil)
	m.addresses.On("FindAddress", mock.Anything, ownerID, shippingID).Return(addr, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)
	assert.Equal(t, addr, out.ShippingAddress)
}

func TestEnrichOrderShippingAddressMissIsNil(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	goneShipping := primitive.NewObjectID()
	order := &model.Order{
		ID:                primitive.NewObjectID(),
		OwnerID:           ownerID,
		OwnerRole:         model.RoleUser,
		ShippingAddressID: goneShipping,
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Iván"}, nil)
	m.addresses.On("FindAddress", mock.Anything, ownerID, goneShipping).Return(nil, repository.ErrNotFound)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)

	// La dirección borrada no resuelve: el campo queda vacío y la orden
	// sale igual.
	assert.Nil(t, out.ShippingAddress)
	assert.Empty(t, out.OwnerError)
}

func TestEnrichReturnPickupFallsBackToRawReference(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()
	goneAddr := primitive.NewObjectID()
	order := &model.Order{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerRole: model.RoleUser,
		Status:    model.OrderDelivered,
		Items: []model.LineItem{
			{
				ID:     primitive.NewObjectID(),
				ItemID: itemID,
				ReturnInfo: &model.ReturnInfo{
					Reason:           "talle equivocado",
					PickupLocationID: goneAddr.Hex(),
					Status:           "Requested",
					RequestedAt:      time.Now().UTC(),
				},
			},
		},
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Elsa"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)
	m.addresses.On("FindAddress", mock.Anything, ownerID, goneAddr).Return(nil, repository.ErrNotFound)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)

	// La dirección ya no existe: la referencia cruda queda tal cual.
	assert.Equal(t, goneAddr.Hex(), out.Items[0].ReturnInfo.PickupLocation)
}

func TestEnrichReturnPickupExpanded(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()
	addrID := primitive.NewObjectID()
	addr := &model.Address{ID: addrID, Line1: "Av. Siempreviva 742", City: "Springfield"}
	order := &model.Order{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerRole: model.RoleUser,
		Items: []model.LineItem{
			{
				ID:     primitive.NewObjectID(),
				ItemID: itemID,
				ReturnInfo: &model.ReturnInfo{
					Reason:           "falla de costura",
					PickupLocationID: addrID.Hex(),
				},
			},
		},
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Fede"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(map[primitive.ObjectID]*model.Item{}, nil)
	m.addresses.On("FindAddress", mock.Anything, ownerID, addrID).Return(addr, nil)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)
	assert.Equal(t, addr, out.Items[0].ReturnInfo.PickupLocation)
}

func TestEnrichOrderCatalogLookupFailureKeepsRawLines(t *testing.T) {
	svc, m := newTestOrderService()

	ownerID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()
	order := &model.Order{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OwnerRole: model.RoleUser,
		Items: []model.LineItem{
			{ID: primitive.NewObjectID(), ItemID: itemID, Quantity: 2, UnitPrice: 500},
		},
	}

	m.users.On("FindByID", mock.Anything, ownerID).Return(&model.User{Name: "Gabi"}, nil)
	m.items.On("FindByIDs", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	out, err := svc.EnrichOrder(context.Background(), order, "")
	assert.NoError(t, err)

	// Sin catálogo no hay nombre ni MRP, pero el renglón sale igual.
	assert.Len(t, out.Items, 1)
	assert.Empty(t, out.Items[0].Name)
	assert.Equal(t, float64(500), out.Items[0].UnitPrice)
	assert.Equal(t, 2, out.Items[0].Quantity)
}
