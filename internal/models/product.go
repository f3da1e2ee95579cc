package models

import "time"

type Product struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"size:255;index;not null"`
	Description         string     `json:"description"`
	Price               float64    `json:"price" gorm:"not null"`
	PriceBeforeDiscount float64    `json:"price_before_discount"`
	PriceAfterDiscount  float64    `json:"price_after_discount"`
	ExpenditureCostINR  float64    `json:"expenditure_cost_inr" gorm:"column:expenditure_cost_inr"`
	DiscountPercentage  float64    `json:"discount_percentage"`
	ProfitPerItemINR    float64    `json:"profit_per_item_inr" gorm:"column:profit_per_item_inr"`
	TotalStock          int        `json:"total_stock" gorm:"not null"`
	StockRemaining      int        `json:"stock_remaining" gorm:"not null"`
	Category            string     `json:"category" gorm:"size:128;index"`
	ImageURL            string     `json:"image_url"`
	VendorID            *uint      `json:"vendor_id,omitempty" gorm:"index"`
	IsActive            bool       `json:"is_active" gorm:"not null;index"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
	ProductRating       float64    `json:"product_rating"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
