// Package product serves the catalog and its reviews.
package product

import "bazaar_back_end/internal/services"

// MaxImageSize bounds product image uploads.
const MaxImageSize = 5 << 20

type Handler struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
}

func NewHandler(catalog *services.CatalogService, reviews *services.ReviewService) *Handler {
	return &Handler{catalog: catalog, reviews: reviews}
}
