package service

import (
	"context"
	"errors"

	"nanocart/internal/dto"
	"nanocart/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Insert(ctx context.Context, r *model.Review) error
	InsertMany(ctx context.Context, reviews []*model.Review) error
	FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type CartRepository interface {
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type WishlistRepository interface {
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type TBYBRepository interface {
	Insert(ctx context.Context, e *model.TBYBEntry) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error)
	FindByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

var ErrPendingOrders = errors.New("no se puede borrar la cuenta con órdenes en curso")

type UserService struct {
	users     UserRepository
	orders    OrderRepository
	reviews   ReviewRepository
	addresses AddressRepository
	carts     CartRepository
	wishlists WishlistRepository
	tbyb      TBYBRepository
	invoices  InvoiceRepository
	auth      AuthRepository
	log       *zap.Logger
}

func NewUserService(
	users UserRepository,
	orders OrderRepository,
	reviews ReviewRepository,
	addresses AddressRepository,
	carts CartRepository,
	wishlists WishlistRepository,
	tbyb TBYBRepository,
	invoices InvoiceRepository,
	auth AuthRepository,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		orders:    orders,
		reviews:   reviews,
		addresses: addresses,
		carts:     carts,
		wishlists: wishlists,
		tbyb:      tbyb,
		invoices:  invoices,
		auth:      auth,
		log:       log,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Libreta de direcciones

func (s *UserService) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]model.Address, error) {
	book, err := s.addresses.FindByOwner(ctx, userID)
	if err != nil {
		return []model.Address{}, nil // libreta vacía, no error
	}
	return book.Addresses, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID primitive.ObjectID, req dto.AddressRequest) (*model.Address, error) {
	addr := &model.Address{
		Label:      req.Label,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := s.addresses.AddAddress(ctx, userID, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID primitive.ObjectID, req dto.AddressRequest) (*model.Address, error) {
	addr := &model.Address{
		ID:         addressID,
		Label:      req.Label,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := s.addresses.UpdateAddress(ctx, userID, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *UserService) RemoveAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	return s.addresses.RemoveAddress(ctx, userID, addressID)
}

// DeleteAccount borra la cuenta en cascada. Se rechaza si el usuario
// tiene alguna orden fuera del conjunto terminal {Cancelled, Delivered}.
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	pending, err := s.orders.HasNonTerminal(ctx, userID)
	if err != nil {
		return err
	}
	if pending {
		return ErrPendingOrders
	}

	// Cascada: órdenes, reseñas, direcciones, carrito, TBYB, wishlist,
	// facturas y sesiones, y al final el usuario.
	steps := []func(context.Context, primitive.ObjectID) error{
		s.orders.DeleteByOwner,
		s.reviews.DeleteByUser,
		s.addresses.DeleteByOwner,
		s.carts.DeleteByUser,
		s.tbyb.DeleteByUser,
		s.wishlists.DeleteByUser,
		s.invoices.DeleteByOwner,
		s.auth.DeactivateAllForOwner,
	}
	for _, step := range steps {
		if err := step(ctx, userID); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info("cuenta borrada en cascada", zap.String("user", userID.Hex()))
	return nil
}
