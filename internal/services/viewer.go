package services

import (
	"context"
	"io"

	"bazaar_back_end/internal/models"
)

// Viewer is the authenticated caller. Guests have UserID 0.
type Viewer struct {
	UserID uint
	Role   string
}

// Privileged reports whether the caller sees inactive products and private fields.
func (v Viewer) Privileged() bool {
	return v.Role == models.RoleAdmin || v.Role == models.RoleVendor
}

func (v Viewer) IsAdmin() bool { return v.Role == models.RoleAdmin }

// ProductCacher is the read-through product cache.
type ProductCacher interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
	Set(ctx context.Context, p *models.Product)
	Invalidate(ctx context.Context, ids ...uint)
}

// ProductIndex is the external full-text index used by product search.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	SearchProductIDs(ctx context.Context, term string, activeOnly bool, limit int) ([]uint, error)
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
