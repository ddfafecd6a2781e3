package service

import (
	"context"
	"testing"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validCoupon() *model.Coupon {
	return &model.Coupon{
		ID:             primitive.NewObjectID(),
		Code:           "SAVE10",
		DiscountType:   model.DiscountPercentage,
		DiscountValue:  10,
		MinOrderAmount: 100,
		ExpiresAt:      time.Now().UTC().Add(24 * time.Hour),
		IsActive:       true,
	}
}

func TestApplyPercentageCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)
	userID := primitive.NewObjectID()
	coupon := validCoupon()

	repo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	repo.On("AppendUsedBy", mock.Anything, coupon.ID, userID).Return(nil)

	res, err := svc.Apply(context.Background(), "SAVE10", userID, 1000)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), res.CalculatedDiscount)
	assert.Equal(t, float64(900), res.PayableAmount)
	repo.AssertExpectations(t)
}

func TestApplyCouponTypeIsCaseInsensitive(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)
	userID := primitive.NewObjectID()

	// Dato histórico: el tipo vino cargado en minúsculas.
	coupon := validCoupon()
	coupon.DiscountType = "percentage"

	repo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	repo.On("AppendUsedBy", mock.Anything, coupon.ID, userID).Return(nil)

	res, err := svc.Apply(context.Background(), "SAVE10", userID, 500)
	assert.NoError(t, err)
	assert.Equal(t, float64(50), res.CalculatedDiscount)
}

func TestApplyFlatCouponCappedAtTotal(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)
	userID := primitive.NewObjectID()

	coupon := validCoupon()
	coupon.DiscountType = model.DiscountFlatAmount
	coupon.DiscountValue = 300
	coupon.MinOrderAmount = 0

	repo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	repo.On("AppendUsedBy", mock.Anything, coupon.ID, userID).Return(nil)

	// El descuento fijo nunca supera el total de la orden.
	res, err := svc.Apply(context.Background(), "SAVE10", userID, 200)
	assert.NoError(t, err)
	assert.Equal(t, float64(200), res.CalculatedDiscount)
	assert.Equal(t, float64(0), res.PayableAmount)
}

func TestApplyCouponRejectsSecondUseBySameUser(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)
	userID := primitive.NewObjectID()

	coupon := validCoupon()
	coupon.UsedBy = []primitive.ObjectID{userID}

	repo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	_, err := svc.Apply(context.Background(), "SAVE10", userID, 1000)
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)
	repo.AssertNotCalled(t, "AppendUsedBy", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyCouponGates(t *testing.T) {
	userID := primitive.NewObjectID()

	cases := []struct {
		name   string
		mutate func(*model.Coupon)
		total  float64
		want   error
	}{
		{"inactivo", func(c *model.Coupon) { c.IsActive = false }, 1000, ErrCouponInactive},
		{"vencido", func(c *model.Coupon) { c.ExpiresAt = time.Now().UTC().Add(-time.Hour) }, 1000, ErrCouponExpired},
		{"monto insuficiente", func(c *model.Coupon) {}, 50, ErrBelowMinAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockCouponRepository)
			svc := NewCouponService(repo)

			coupon := validCoupon()
			tc.mutate(coupon)
			repo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

			_, err := svc.Apply(context.Background(), "SAVE10", userID, tc.total)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestApplyUnknownCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)

	repo.On("FindByCode", mock.Anything, "NOPE").Return(nil, repository.ErrNotFound)

	_, err := svc.Apply(context.Background(), "NOPE", primitive.NewObjectID(), 1000)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(c *model.Coupon) bool {
		return c.Code == "SAVE10"
	})).Return(nil)

	c, err := svc.Create(context.Background(), dto.CreateCouponRequest{
		Code:          "save10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		ExpiresAt:     time.Now().UTC().Add(time.Hour),
	})
	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
}

func TestCreateDuplicateCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	svc := NewCouponService(repo)

	repo.On("Insert", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), dto.CreateCouponRequest{
		Code:          "SAVE10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		ExpiresAt:     time.Now().UTC().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrCouponExists)
}
