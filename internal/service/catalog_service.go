package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"nanocart/internal/dto"
	"nanocart/internal/model"
	"nanocart/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FilterRepository interface {
	Insert(ctx context.Context, f *model.Filter) error
	FindAll(ctx context.Context) ([]*model.Filter, error)
	Update(ctx context.Context, f *model.Filter) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BannerRepository interface {
	Insert(ctx context.Context, b *model.Banner) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Banner, error)
	FindActive(ctx context.Context) ([]*model.Banner, error)
	Update(ctx context.Context, b *model.Banner) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ObjectStore lo implementa el cliente S3.
type ObjectStore interface {
	UploadFile(file *multipart.FileHeader, key string) (string, error)
	UpdateFile(file *multipart.FileHeader, key string) (string, error)
	DeleteFile(key string) error
}

var ErrFilterExists = errors.New("ya existe un filtro con esa clave")

// FilterService: CRUD directo, sin más reglas que la unicidad de la clave.
type FilterService struct {
	repo FilterRepository
}

func NewFilterService(repo FilterRepository) *FilterService {
	return &FilterService{repo: repo}
}

func (s *FilterService) Create(ctx context.Context, req dto.CreateFilterRequest) (*model.Filter, error) {
	f := &model.Filter{Key: req.Key, Values: req.Values, Order: req.Order}
	err := s.repo.Insert(ctx, f)
	if err == repository.ErrDuplicate {
		return nil, ErrFilterExists
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FilterService) List(ctx context.Context) ([]*model.Filter, error) {
	return s.repo.FindAll(ctx)
}

func (s *FilterService) Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateFilterRequest) error {
	f := &model.Filter{ID: id, Values: req.Values}
	if req.Order != nil {
		f.Order = *req.Order
	}
	return s.repo.Update(ctx, f)
}

func (s *FilterService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

// BannerService maneja el CRUD y la imagen en el object store.
type BannerService struct {
	repo  BannerRepository
	store ObjectStore
	log   *zap.Logger
}

func NewBannerService(repo BannerRepository, store ObjectStore, log *zap.Logger) *BannerService {
	return &BannerService{repo: repo, store: store, log: log}
}

func (s *BannerService) Create(ctx context.Context, form dto.CreateBannerForm, image *multipart.FileHeader) (*model.Banner, error) {
	key := fmt.Sprintf("banners/%s", uuid.NewString())
	url, err := s.store.UploadFile(image, key)
	if err != nil {
		return nil, fmt.Errorf("subiendo imagen del banner: %w", err)
	}

	b := &model.Banner{
		Title:    form.Title,
		ImageURL: url,
		S3Key:    key,
		Link:     form.Link,
		IsActive: form.IsActive,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		// El documento no quedó: limpiamos el objeto subido.
		if derr := s.store.DeleteFile(key); derr != nil {
			s.log.Warn("no se pudo limpiar la imagen huérfana", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}
	return b, nil
}

func (s *BannerService) ListActive(ctx context.Context) ([]*model.Banner, error) {
	return s.repo.FindActive(ctx)
}

func (s *BannerService) Update(ctx context.Context, id primitive.ObjectID, form dto.UpdateBannerForm, image *multipart.FileHeader) (*model.Banner, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.Title != "" {
		b.Title = form.Title
	}
	if form.Link != "" {
		b.Link = form.Link
	}
	if form.IsActive != nil {
		b.IsActive = *form.IsActive
	}
	if image != nil {
		url, err := s.store.UpdateFile(image, b.S3Key)
		if err != nil {
			return nil, fmt.Errorf("reemplazando imagen del banner: %w", err)
		}
		b.ImageURL = url
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BannerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteFile(b.S3Key); err != nil {
		s.log.Warn("no se pudo borrar la imagen del banner", zap.String("key", b.S3Key), zap.Error(err))
	}
	return nil
}

// ReviewService siembra reseñas de admin y lista las de cada artículo.
type ReviewService struct {
	repo  ReviewRepository
	items ItemRepository
}

func NewReviewService(repo ReviewRepository, items ItemRepository) *ReviewService {
	return &ReviewService{repo: repo, items: items}
}

func (s *ReviewService) Seed(ctx context.Context, req dto.SeedReviewsRequest) ([]*model.Review, error) {
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("itemId inválido: %w", err)
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	reviews := make([]*model.Review, 0, len(req.Reviews))
	for _, r := range req.Reviews {
		postedAt := time.Now().UTC()
		if r.PostedAt != nil {
			postedAt = *r.PostedAt
		}
		reviews = append(reviews, &model.Review{
			ItemID:      itemID,
			DisplayName: r.DisplayName,
			Rating:      r.Rating,
			Text:        r.Text,
			IsSeeded:    true,
			PostedAt:    postedAt,
		})
	}

	if err := s.repo.InsertMany(ctx, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) ListByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.Review, error) {
	return s.repo.FindByItem(ctx, itemID, page, limit)
}

func (s *ReviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

// TBYBService: el usuario sube una imagen propia contra un artículo.
type TBYBService struct {
	repo  TBYBRepository
	items ItemRepository
	store ObjectStore
}

func NewTBYBService(repo TBYBRepository, items ItemRepository, store ObjectStore) *TBYBService {
	return &TBYBService{repo: repo, items: items, store: store}
}

func (s *TBYBService) Create(ctx context.Context, userID primitive.ObjectID, rawItemID string, image *multipart.FileHeader) (*model.TBYBEntry, error) {
	itemID, err := primitive.ObjectIDFromHex(rawItemID)
	if err != nil {
		return nil, fmt.Errorf("itemId inválido: %w", err)
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tbyb/%s/%s", userID.Hex(), uuid.NewString())
	url, err := s.store.UploadFile(image, key)
	if err != nil {
		return nil, fmt.Errorf("subiendo imagen TBYB: %w", err)
	}

	entry := &model.TBYBEntry{
		UserID:   userID,
		ItemID:   itemID,
		ImageURL: url,
		S3Key:    key,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TBYBService) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	return s.repo.FindByUser(ctx, userID, page, limit)
}

func (s *TBYBService) ListByItem(ctx context.Context, itemID primitive.ObjectID, page, limit int) ([]*model.TBYBEntry, error) {
	return s.repo.FindByItem(ctx, itemID, page, limit)
}
