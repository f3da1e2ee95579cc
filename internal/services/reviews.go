package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bazaar_back_end/internal/models"

	"gorm.io/gorm"
)

type ReviewService struct {
	db    *gorm.DB
	cache ProductCacher
}

func NewReviewService(db *gorm.DB, cache ProductCacher) *ReviewService {
	return &ReviewService{db: db, cache: cache}
}

type ReviewInput struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Rating    *float64 `json:"rating" binding:"required"`
	Comment   string   `json:"comment"`
}

type ProductReviews struct {
	ProductID             uint            `json:"product_id"`
	WeightedAverageRating float64         `json:"weighted_average_rating"`
	Reviews               []models.Review `json:"reviews"`
}

// WeightedRating averages ratings giving double weight to scores of 4 and above,
// rounded to two decimals. No ratings yields 0.
func WeightedRating(ratings []float64) float64 {
	var sum, weights float64
	for _, r := range ratings {
		w := 1.0
		if r >= 4 {
			w = 2
		}
		sum += r * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return math.Round(sum/weights*100) / 100
}

// Create records a review and refreshes the product rating in the same transaction.
func (s *ReviewService) Create(ctx context.Context, userID uint, in ReviewInput) (*models.Review, error) {
	if in.Rating == nil {
		return nil, invalid("Rating is required")
	}
	if *in.Rating < 0 || *in.Rating > 5 {
		return nil, invalid("Rating must be between 0 and 5")
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: in.ProductID,
		Rating:    *in.Rating,
		Comment:   in.Comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := activeProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND product_id = ?", userID, in.ProductID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check reviews: %w", err)
		}
		if count > 0 {
			return conflict("You have already reviewed this product")
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		var ratings []float64
		if err := tx.Model(&models.Review{}).Where("product_id = ?", in.ProductID).
			Pluck("rating", &ratings).Error; err != nil {
			return fmt.Errorf("failed to load ratings: %w", err)
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", in.ProductID).
			UpdateColumn("product_rating", WeightedRating(ratings)).Error; err != nil {
			return fmt.Errorf("failed to update product rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, in.ProductID)
	}
	return review, nil
}

// ForProduct lists a product's reviews newest first with the weighted average.
func (s *ReviewService) ForProduct(ctx context.Context, viewer Viewer, productID uint) (*ProductReviews, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !p.IsActive && !viewer.Privileged() {
		return nil, forbidden("Product is not available")
	}

	reviews := []models.Review{}
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	ratings := make([]float64, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return &ProductReviews{
		ProductID:             productID,
		WeightedAverageRating: WeightedRating(ratings),
		Reviews:               reviews,
	}, nil
}
