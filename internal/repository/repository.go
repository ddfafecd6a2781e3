package repository

import "errors"

// Sentinelas compartidas por los repositorios Mongo.
var (
	ErrNotFound  = errors.New("documento no encontrado")
	ErrDuplicate = errors.New("documento duplicado")
)

// Paginación "skip N, take M". Valores por defecto: page=1, limit=10.
func SkipLimit(page, limit int) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return int64((page - 1) * limit), int64(limit)
}
