package dto

import "time"

type CreateFilterRequest struct {
	Key    string   `json:"key" binding:"required"`
	Values []string `json:"values" binding:"required,min=1"`
	Order  int      `json:"order"`
}

type UpdateFilterRequest struct {
	Values []string `json:"values" binding:"required,min=1"`
	Order  *int     `json:"order"`
}

// Los banners entran por multipart: los campos van como form, la imagen
// como archivo.
type CreateBannerForm struct {
	Title    string `form:"title" binding:"required"`
	Link     string `form:"link"`
	IsActive bool   `form:"isActive"`
}

type UpdateBannerForm struct {
	Title    string `form:"title"`
	Link     string `form:"link"`
	IsActive *bool  `form:"isActive"`
}

// Siembra de reseñas por admin.
type SeedReviewsRequest struct {
	ItemID  string       `json:"itemId" binding:"required"`
	Reviews []SeedReview `json:"reviews" binding:"required,min=1,dive"`
}

type SeedReview struct {
	DisplayName string     `json:"displayName" binding:"required"`
	Rating      int        `json:"rating" binding:"required,min=1,max=5"`
	Text        string     `json:"text"`
	PostedAt    *time.Time `json:"postedAt"`
}

type CreateTBYBForm struct {
	ItemID string `form:"itemId" binding:"required"`
}
