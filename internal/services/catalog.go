package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService struct {
	db     *gorm.DB
	cache  ProductCacher
	index  ProductIndex
	images ImageStore
}

// CatalogOptions wires the optional backends. Nil fields are skipped.
type CatalogOptions struct {
	Cache  ProductCacher
	Index  ProductIndex
	Images ImageStore
}

func NewCatalogService(db *gorm.DB, opts CatalogOptions) *CatalogService {
	return &CatalogService{db: db, cache: opts.Cache, index: opts.Index, images: opts.Images}
}

type ProductInput struct {
	Name               string  `json:"name" yaml:"name" binding:"required"`
	Description        string  `json:"description" yaml:"description"`
	Price              float64 `json:"price" yaml:"price"`
	ExpenditureCostINR float64 `json:"expenditure_cost_inr" yaml:"expenditure_cost_inr"`
	DiscountPercentage float64 `json:"discount_percentage" yaml:"discount_percentage"`
	TotalStock         int     `json:"total_stock" yaml:"total_stock"`
	Category           string  `json:"category" yaml:"category" binding:"required"`
	ImageURL           string  `json:"image_url" yaml:"image_url"`
	VendorID           *uint   `json:"vendor_id" yaml:"vendor_id"`
}

type ProductPatch struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price"`
	ExpenditureCostINR *float64 `json:"expenditure_cost_inr"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	TotalStock         *int     `json:"total_stock"`
	Category           *string  `json:"category"`
	ImageURL           *string  `json:"image_url"`
	IsActive           *bool    `json:"is_active"`
}

type ProductAnalysis struct {
	Product models.Product  `json:"product"`
	Reviews []models.Review `json:"reviews"`
}

func (in ProductInput) toModel() *models.Product {
	p := &models.Product{
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		Price:              in.Price,
		ExpenditureCostINR: in.ExpenditureCostINR,
		DiscountPercentage: in.DiscountPercentage,
		TotalStock:         in.TotalStock,
		StockRemaining:     in.TotalStock,
		Category:           strings.TrimSpace(in.Category),
		ImageURL:           in.ImageURL,
		IsActive:           true,
	}
	ApplyPricing(p)
	return p
}

// Create adds a product. Vendors always own what they create; admins may assign a vendor.
func (s *CatalogService) Create(ctx context.Context, viewer Viewer, in ProductInput) (*models.Product, error) {
	p := in.toModel()
	if err := ValidateProductFields(p); err != nil {
		return nil, err
	}

	switch viewer.Role {
	case models.RoleVendor:
		id := viewer.UserID
		p.VendorID = &id
	case models.RoleAdmin:
		if in.VendorID != nil {
			if err := s.requireVendor(ctx, s.db, *in.VendorID); err != nil {
				return nil, err
			}
			p.VendorID = in.VendorID
		}
	default:
		return nil, forbidden("Only admins and vendors can create products")
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.reindex(ctx, p)
	log.Printf("✅ Product created: %s (id=%d)", p.Name, p.ID)
	return p, nil
}

func (s *CatalogService) requireVendor(ctx context.Context, db *gorm.DB, id uint) error {
	var vendor models.User
	err := db.WithContext(ctx).Where("id = ? AND role = ?", id, models.RoleVendor).First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("Vendor %d does not exist", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load vendor: %w", err)
	}
	return nil
}

func (s *CatalogService) visible(db *gorm.DB, viewer Viewer) *gorm.DB {
	if viewer.Privileged() {
		return db
	}
	return db.Where("is_active = ?", true)
}

// List pages through the catalog.
func (s *CatalogService) List(ctx context.Context, viewer Viewer, skip, limit int) ([]models.Product, error) {
	if err := checkPage(skip, limit); err != nil {
		return nil, err
	}

	products := []models.Product{}
	err := s.visible(s.db.WithContext(ctx), viewer).Order("id").Offset(skip).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Search matches names case-insensitively, through the index when one is wired.
func (s *CatalogService) Search(ctx context.Context, viewer Viewer, name string) ([]models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Search term is required")
	}

	products := []models.Product{}
	if ids, ok := s.searchIndex(ctx, viewer, name); ok {
		if len(ids) > 0 {
			err := s.visible(s.db.WithContext(ctx), viewer).Where("id IN ?", ids).Order("id").Find(&products).Error
			if err != nil {
				return nil, fmt.Errorf("failed to load products: %w", err)
			}
		}
	} else {
		pattern := "%" + strings.ToLower(name) + "%"
		err := s.visible(s.db.WithContext(ctx), viewer).Where("LOWER(name) LIKE ?", pattern).Order("id").Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search products: %w", err)
		}
	}

	if len(products) == 0 {
		return nil, notFound("No products found matching '%s'", name)
	}
	return products, nil
}

func (s *CatalogService) searchIndex(ctx context.Context, viewer Viewer, term string) ([]uint, bool) {
	if s.index == nil {
		return nil, false
	}
	ids, err := s.index.SearchProductIDs(ctx, term, !viewer.Privileged(), MaxPageSize)
	if err != nil {
		log.Printf("⚠️ Search index unavailable, falling back to SQL: %v", err)
		return nil, false
	}
	return ids, true
}

// ByCategory filters on a case-insensitive category substring.
func (s *CatalogService) ByCategory(ctx context.Context, viewer Viewer, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if len(category) < 2 {
		return nil, invalid("Category must be at least 2 characters")
	}

	products := []models.Product{}
	pattern := "%" + strings.ToLower(category) + "%"
	err := s.visible(s.db.WithContext(ctx), viewer).Where("LOWER(category) LIKE ?", pattern).Order("id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	if len(products) == 0 {
		return nil, notFound("No products found in category '%s'", category)
	}
	return products, nil
}

// ByRating returns products whose rating lies in [min, max].
func (s *CatalogService) ByRating(ctx context.Context, viewer Viewer, min, max float64) ([]models.Product, error) {
	if min < 0 || max > 5 || min > max {
		return nil, invalid("Rating range must satisfy 0 <= min <= max <= 5")
	}

	products := []models.Product{}
	err := s.visible(s.db.WithContext(ctx), viewer).
		Where("product_rating >= ? AND product_rating <= ?", min, max).
		Order("product_rating DESC, id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	if len(products) == 0 {
		return nil, notFound("No products found with rating between %.1f and %.1f", min, max)
	}
	return products, nil
}

// Get loads one product. Customers and guests cannot see inactive ones.
func (s *CatalogService) Get(ctx context.Context, viewer Viewer, id uint) (*models.Product, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive && !viewer.Privileged() {
		return nil, forbidden("Product is not available")
	}
	return p, nil
}

func (s *CatalogService) load(ctx context.Context, id uint) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil && p != nil {
			return p, nil
		}
	}

	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, &p)
	}
	return &p, nil
}

func (s *CatalogService) loadOwned(ctx context.Context, viewer Viewer, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	switch viewer.Role {
	case models.RoleAdmin:
	case models.RoleVendor:
		if p.VendorID == nil || *p.VendorID != viewer.UserID {
			return nil, forbidden("You can only manage your own products")
		}
	default:
		return nil, forbidden("Only admins and vendors can manage products")
	}
	return &p, nil
}

// Update applies a patch and recomputes pricing. A total_stock change shifts stock_remaining by the same delta.
func (s *CatalogService) Update(ctx context.Context, viewer Viewer, id uint, patch ProductPatch) (*models.Product, error) {
	current, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.ExpenditureCostINR != nil {
		next.ExpenditureCostINR = *patch.ExpenditureCostINR
	}
	if patch.DiscountPercentage != nil {
		next.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.TotalStock != nil {
		next.TotalStock = *patch.TotalStock
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.ImageURL != nil {
		next.ImageURL = *patch.ImageURL
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
		if next.IsActive {
			next.DeletedAt = nil
		}
	}
	ApplyPricing(&next)
	if err := ValidateProductFields(&next); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":                  next.Name,
		"description":           next.Description,
		"price":                 next.Price,
		"price_before_discount": next.PriceBeforeDiscount,
		"price_after_discount":  next.PriceAfterDiscount,
		"expenditure_cost_inr":  next.ExpenditureCostINR,
		"discount_percentage":   next.DiscountPercentage,
		"profit_per_item_inr":   next.ProfitPerItemINR,
		"total_stock":           next.TotalStock,
		"category":              next.Category,
		"image_url":             next.ImageURL,
		"is_active":             next.IsActive,
		"deleted_at":            next.DeletedAt,
	}

	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
	if delta := next.TotalStock - current.TotalStock; delta != 0 {
		updates["stock_remaining"] = gorm.Expr("stock_remaining + ?", delta)
		q = q.Where("stock_remaining + ? >= 0", delta)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, invalid("Total stock cannot drop below the units already sold")
	}

	s.invalidate(ctx, id)
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, updated)
	return updated, nil
}

// SoftDelete deactivates the product and stamps deleted_at.
func (s *CatalogService) SoftDelete(ctx context.Context, viewer Viewer, id uint) error {
	p, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"is_active":  false,
		"deleted_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	p.IsActive = false
	p.DeletedAt = &now
	s.invalidate(ctx, id)
	s.reindex(ctx, p)
	log.Printf("🗑️ Product %d deactivated", id)
	return nil
}

// Import inserts a batch. Every entry is validated before anything is written.
func (s *CatalogService) Import(ctx context.Context, items []ProductInput) ([]models.Product, error) {
	if len(items) == 0 {
		return nil, invalid("No products to import")
	}

	products := make([]models.Product, 0, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, in := range items {
			p := in.toModel()
			if err := ValidateProductFields(p); err != nil {
				return invalid("Product %d: %s", i+1, err.Error())
			}
			if in.VendorID == nil {
				return invalid("Product %d: vendor_id is required", i+1)
			}
			if err := s.requireVendor(ctx, tx, *in.VendorID); err != nil {
				return invalid("Product %d: %s", i+1, err.Error())
			}
			p.VendorID = in.VendorID
			products = append(products, *p)
		}

		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to import products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range products {
		s.reindex(ctx, &products[i])
	}
	log.Printf("✅ Imported %d products", len(products))
	return products, nil
}

// UploadImage stores the file and points image_url at it.
func (s *CatalogService) UploadImage(ctx context.Context, viewer Viewer, id uint, filename string, r io.Reader, size int64, contentType string) (*models.Product, error) {
	if s.images == nil {
		return nil, unavailable("Image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("File must be an image")
	}

	p, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%s%s", p.ID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.images.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(p).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to save image url: %w", err)
	}
	p.ImageURL = url
	s.invalidate(ctx, id)
	return p, nil
}

// Analysis lists every product with its reviews, newest review first.
func (s *CatalogService) Analysis(ctx context.Context) ([]ProductAnalysis, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var reviews []models.Review
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	byProduct := make(map[uint][]models.Review, len(products))
	for _, r := range reviews {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}

	out := make([]ProductAnalysis, 0, len(products))
	for _, p := range products {
		rs := byProduct[p.ID]
		if rs == nil {
			rs = []models.Review{}
		}
		out = append(out, ProductAnalysis{Product: p, Reviews: rs})
	}
	return out, nil
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexProduct(ctx, p); err != nil {
		log.Printf("⚠️ Failed to index product %d: %v", p.ID, err)
	}
}
