package service

import (
	"context"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/rabbit"
	"nanocart/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mocks compartidos por los tests del paquete.

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, page, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, ownerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string, record model.StatusRecord) error {
	args := m.Called(ctx, orderID, status, record)
	return args.Error(0)
}

func (m *MockOrderRepository) SetLineItemReturn(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ReturnInfo) error {
	args := m.Called(ctx, orderID, lineItemID, info)
	return args.Error(0)
}

func (m *MockOrderRepository) SetLineItemExchange(ctx context.Context, orderID, lineItemID primitive.ObjectID, info *model.ExchangeInfo) error {
	args := m.Called(ctx, orderID, lineItemID, info)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) HasNonTerminal(ctx context.Context, ownerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockOrderRepository) Revenue(ctx context.Context, from, to time.Time) (*repository.RevenueSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RevenueSummary), args.Error(1)
}

func (m *MockOrderRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]repository.DailyRevenue, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DailyRevenue), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Insert(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByPhone(ctx context.Context, phone string) (*model.Partner, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Partner), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.AddressBook, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AddressBook), args.Error(1)
}

func (m *MockAddressRepository) FindAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) (*model.Address, error) {
	args := m.Called(ctx, ownerID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockAddressRepository) AddAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error {
	args := m.Called(ctx, ownerID, addr)
	return args.Error(0)
}

func (m *MockAddressRepository) UpdateAddress(ctx context.Context, ownerID primitive.ObjectID, addr *model.Address) error {
	args := m.Called(ctx, ownerID, addr)
	return args.Error(0)
}

func (m *MockAddressRepository) RemoveAddress(ctx context.Context, ownerID, addressID primitive.ObjectID) error {
	args := m.Called(ctx, ownerID, addressID)
	return args.Error(0)
}

func (m *MockAddressRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]*model.Item), args.Error(1)
}

func (m *MockItemRepository) FindDetailByItemID(ctx context.Context, itemID primitive.ObjectID) (*model.ItemDetail, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ItemDetail), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Insert(ctx context.Context, inv *model.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByOrderID(ctx context.Context, orderID primitive.ObjectID) (*model.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, page, limit int) ([]*model.Coupon, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) Update(ctx context.Context, c *model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) AppendUsedBy(ctx context.Context, couponID, userID primitive.ObjectID) error {
	args := m.Called(ctx, couponID, userID)
	return args.Error(0)
}

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) UpsertOTP(ctx context.Context, rec *model.OTPRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuthRepository) FindOTPByPhone(ctx context.Context, phone string) (*model.OTPRecord, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OTPRecord), args.Error(1)
}

func (m *MockAuthRepository) MarkOTPVerified(ctx context.Context, phone string, until time.Time) error {
	args := m.Called(ctx, phone, until)
	return args.Error(0)
}

func (m *MockAuthRepository) InsertRefreshToken(ctx context.Context, t *model.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockAuthRepository) FindActiveRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockAuthRepository) DeactivateRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepository) DeactivateAllForOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, r *model.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) InsertMany(ctx context.Context, reviews []*model.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.Review, error) {
	args := m.Called(ctx, itemID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTBYBRepository struct {
	mock.Mock
}

func (m *MockTBYBRepository) Insert(ctx context.Context, e *model.TBYBEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTBYBRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TBYBEntry), args.Error(1)
}

func (m *MockTBYBRepository) FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	args := m.Called(ctx, itemID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TBYBEntry), args.Error(1)
}

func (m *MockTBYBRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockOTPProvider struct {
	mock.Mock
}

func (m *MockOTPProvider) Send(ctx context.Context, phone string) (string, time.Time, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockOTPProvider) Resend(ctx context.Context, phone, sessionID string, voice bool) error {
	args := m.Called(ctx, phone, sessionID, voice)
	return args.Error(0)
}

func (m *MockOTPProvider) Verify(ctx context.Context, sessionID, code string) error {
	args := m.Called(ctx, sessionID, code)
	return args.Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, string, error) {
	args := m.Called(ctx, idToken)
	return args.String(0), args.String(1), args.Error(2)
}

type MockCouponApplier struct {
	mock.Mock
}

func (m *MockCouponApplier) Apply(ctx context.Context, code string, userID primitive.ObjectID, total float64) (*dto.ApplyCouponResponse, error) {
	args := m.Called(ctx, code, userID, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApplyCouponResponse), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event rabbit.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
