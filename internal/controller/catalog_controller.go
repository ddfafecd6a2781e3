package controller

import (
	"errors"
	"net/http"

	"nanocart/internal/dto"
	"nanocart/internal/repository"
	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Controllers de catálogo: filtros, banners, reseñas y TBYB.

type FilterController struct {
	Service *service.FilterService
}

func NewFilterController(s *service.FilterService) *FilterController {
	return &FilterController{Service: s}
}

// POST /admin/filters
func (ctl *FilterController) Create(c *gin.Context) {
	var req dto.CreateFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	f, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrFilterExists) {
			response.ErrorWith(c, http.StatusConflict, "duplicate filter key", err)
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	response.OK(c, http.StatusCreated, "filter created", f)
}

// GET /filters
func (ctl *FilterController) List(c *gin.Context) {
	filters, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch filters", err)
		return
	}
	response.OK(c, http.StatusOK, "filters fetched", filters)
}

// PUT /admin/filters/:filterId
func (ctl *FilterController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("filterId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filterId")
		return
	}

	var req dto.UpdateFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := ctl.Service.Update(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "filter not found")
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	response.OK(c, http.StatusOK, "filter updated", nil)
}

// DELETE /admin/filters/:filterId
func (ctl *FilterController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("filterId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filterId")
		return
	}

	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "filter not found")
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	response.OK(c, http.StatusOK, "filter deleted", nil)
}

type BannerController struct {
	Service *service.BannerService
}

func NewBannerController(s *service.BannerService) *BannerController {
	return &BannerController{Service: s}
}

// POST /admin/banners — multipart: campos + imagen
func (ctl *BannerController) Create(c *gin.Context) {
	var form dto.CreateBannerForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid form fields", err)
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required")
		return
	}

	b, err := ctl.Service.Create(c.Request.Context(), form, image)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not create banner", err)
		return
	}
	response.OK(c, http.StatusCreated, "banner created", b)
}

// GET /banners
func (ctl *BannerController) List(c *gin.Context) {
	banners, err := ctl.Service.ListActive(c.Request.Context())
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch banners", err)
		return
	}
	response.OK(c, http.StatusOK, "banners fetched", banners)
}

// PATCH /admin/banners/:bannerId — la imagen es opcional
func (ctl *BannerController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("bannerId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid bannerId")
		return
	}

	var form dto.UpdateBannerForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid form fields", err)
		return
	}

	image, _ := c.FormFile("image")

	b, err := ctl.Service.Update(c.Request.Context(), id, form, image)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "banner not found")
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "could not update banner", err)
		return
	}
	response.OK(c, http.StatusOK, "banner updated", b)
}

// DELETE /admin/banners/:bannerId
func (ctl *BannerController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("bannerId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid bannerId")
		return
	}

	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "banner not found")
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "could not delete banner", err)
		return
	}
	response.OK(c, http.StatusOK, "banner deleted", nil)
}

type ReviewController struct {
	Service *service.ReviewService
}

func NewReviewController(s *service.ReviewService) *ReviewController {
	return &ReviewController{Service: s}
}

// POST /admin/reviews/seed
func (ctl *ReviewController) Seed(c *gin.Context) {
	var req dto.SeedReviewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	reviews, err := ctl.Service.Seed(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "item not found")
			return
		}
		response.ErrorWith(c, http.StatusBadRequest, "could not seed reviews", err)
		return
	}
	response.OK(c, http.StatusCreated, "reviews seeded", reviews)
}

// GET /items/:itemId/reviews
func (ctl *ReviewController) ListByItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid itemId")
		return
	}
	page, limit := pagination(c)

	reviews, err := ctl.Service.ListByItem(c.Request.Context(), itemID, page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch reviews", err)
		return
	}
	response.OK(c, http.StatusOK, "reviews fetched", reviews)
}

// DELETE /admin/reviews/:reviewId
func (ctl *ReviewController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid reviewId")
		return
	}

	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "review not found")
			return
		}
		response.ErrorWith(c, http.StatusInternalServerError, "could not delete review", err)
		return
	}
	response.OK(c, http.StatusOK, "review deleted", nil)
}

type TBYBController struct {
	Service *service.TBYBService
}

func NewTBYBController(s *service.TBYBService) *TBYBController {
	return &TBYBController{Service: s}
}

// POST /tbyb — multipart: itemId + imagen
func (ctl *TBYBController) Create(c *gin.Context) {
	var form dto.CreateTBYBForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid form fields", err)
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required")
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	entry, err := ctl.Service.Create(c.Request.Context(), actor, form.ItemID, image)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "item not found")
			return
		}
		response.ErrorWith(c, http.StatusBadRequest, "could not create tbyb entry", err)
		return
	}
	response.OK(c, http.StatusCreated, "tbyb entry created", entry)
}

// GET /tbyb/mine
func (ctl *TBYBController) ListMine(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}
	page, limit := pagination(c)

	entries, err := ctl.Service.ListByUser(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch tbyb entries", err)
		return
	}
	response.OK(c, http.StatusOK, "tbyb entries fetched", entries)
}

// GET /admin/tbyb/item/:itemId
func (ctl *TBYBController) ListByItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid itemId")
		return
	}
	page, limit := pagination(c)

	entries, err := ctl.Service.ListByItem(c.Request.Context(), itemID, page, limit)
	if err != nil {
		response.ErrorWith(c, http.StatusInternalServerError, "could not fetch tbyb entries", err)
		return
	}
	response.OK(c, http.StatusOK, "tbyb entries fetched", entries)
}
