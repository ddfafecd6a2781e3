package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	Insert(ctx context.Context, c *model.Coupon) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	FindAll(ctx context.Context, page, limit int) ([]*model.Coupon, int64, error)
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendUsedBy(ctx context.Context, couponID, userID primitive.ObjectID) error
}

var (
	ErrCouponExists      = errors.New("ya existe un cupón con ese código")
	ErrCouponNotFound    = errors.New("cupón no encontrado")
	ErrCouponInactive    = errors.New("el cupón está inactivo")
	ErrCouponExpired     = errors.New("el cupón está vencido")
	ErrCouponAlreadyUsed = errors.New("el cupón ya fue usado por este usuario")
	ErrBelowMinAmount    = errors.New("el monto no alcanza el mínimo del cupón")
)

type CouponService struct {
	repo CouponRepository
}

func NewCouponService(repo CouponRepository) *CouponService {
	return &CouponService{repo: repo}
}

func (s *CouponService) Create(ctx context.Context, req dto.CreateCouponRequest) (*model.Coupon, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	c := &model.Coupon{
		Code:           strings.ToUpper(req.Code),
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       active,
	}

	err := s.repo.Insert(ctx, c)
	if err == repository.ErrDuplicate {
		return nil, ErrCouponExists
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CouponService) List(ctx context.Context, page, limit int) ([]*model.Coupon, int64, error) {
	return s.repo.FindAll(ctx, page, limit)
}

func (s *CouponService) Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.DiscountType != "" {
		coupon.DiscountType = req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = *req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.repo.Delete(ctx, id)
	if err == repository.ErrNotFound {
		return ErrCouponNotFound
	}
	return err
}

// Apply valida y calcula el descuento. El tipo de descuento se compara
// sin distinguir mayúsculas: el dato histórico trae tanto "Percentage"
// como "percentage".
func (s *CouponService) Apply(ctx context.Context, code string, userID primitive.ObjectID, total float64) (*dto.ApplyCouponResponse, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err == repository.ErrNotFound {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if time.Now().UTC().After(coupon.ExpiresAt) {
		return nil, ErrCouponExpired
	}
	if total < coupon.MinOrderAmount {
		return nil, ErrBelowMinAmount
	}
	for _, used := range coupon.UsedBy {
		if used == userID {
			return nil, ErrCouponAlreadyUsed
		}
	}

	discount := calculateDiscount(coupon, total)

	// Lectura-modificación-escritura: dos canjes concurrentes del mismo
	// usuario pueden pasar ambos el chequeo de arriba. Brecha documentada.
	if err := s.repo.AppendUsedBy(ctx, coupon.ID, userID); err != nil {
		return nil, err
	}

	payable, _ := decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(discount)).Round(2).Float64()
	return &dto.ApplyCouponResponse{
		Code:               coupon.Code,
		CalculatedDiscount: discount,
		PayableAmount:      payable,
	}, nil
}

func calculateDiscount(coupon *model.Coupon, total float64) float64 {
	value := decimal.NewFromFloat(coupon.DiscountValue)
	amount := decimal.NewFromFloat(total)

	var discount decimal.Decimal
	if strings.EqualFold(coupon.DiscountType, model.DiscountPercentage) {
		discount = amount.Mul(value).Div(decimal.NewFromInt(100))
	} else {
		discount = value
		if discount.GreaterThan(amount) {
			discount = amount
		}
	}

	out, _ := discount.Round(2).Float64()
	return out
}
