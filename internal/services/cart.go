package services

import (
	"context"
	"errors"
	"fmt"

	"bazaar_back_end/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

type CartView struct {
	CartItems   []models.CartItem `json:"cart_items"`
	TotalAmount float64           `json:"total_amount"`
}

// activeProduct loads a product a customer may put in a cart or wishlist.
func activeProduct(ctx context.Context, db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !p.IsActive {
		return nil, forbidden("Product is not available")
	}
	return &p, nil
}

// Add puts a product in the cart. Stock is checked here but only deducted when the order is placed.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, invalid("Quantity must be at least 1")
	}

	p, err := activeProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if quantity > p.StockRemaining {
		return nil, invalid("Only %d units of %s in stock", p.StockRemaining, p.Name)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}
	if count > 0 {
		return nil, conflict("Product already in cart")
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Product already in cart")
		}
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	item.Product = *p
	return item, nil
}

// Get returns the cart lines and their discounted total.
func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	var items []models.CartItem
	if err := s.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, notFound("Cart is empty")
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineTotal(it.Product.PriceAfterDiscount, it.Quantity))
	}
	return &CartView{CartItems: items, TotalAmount: total.InexactFloat64()}, nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove from cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Product not in cart")
	}
	return nil
}

func (s *CartService) AddToWishlist(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	p, err := activeProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if count > 0 {
		return nil, conflict("Product already in wishlist")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Product already in wishlist")
		}
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	item.Product = *p
	return item, nil
}

func (s *CartService) Wishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	if err := s.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return items, nil
}

func (s *CartService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Product not in wishlist")
	}
	return nil
}

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
