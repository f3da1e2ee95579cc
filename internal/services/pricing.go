package services

import (
	"strings"

	"bazaar_back_end/internal/models"
)

// ApplyPricing fills the derived price fields from price, discount and cost.
func ApplyPricing(p *models.Product) {
	p.PriceBeforeDiscount = p.Price
	p.PriceAfterDiscount = p.Price * (1 - p.DiscountPercentage/100)
	p.ProfitPerItemINR = p.PriceAfterDiscount - p.ExpenditureCostINR
}

// ValidateProductFields checks the business constraints shared by create, update and import.
func ValidateProductFields(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalid("Product name is required")
	case strings.TrimSpace(p.Category) == "":
		return invalid("Product category is required")
	case p.Price < 0:
		return invalid("Price must be non-negative")
	case p.ExpenditureCostINR < 0:
		return invalid("Expenditure cost must be non-negative")
	case p.DiscountPercentage < 0 || p.DiscountPercentage > 100:
		return invalid("Discount percentage must be between 0 and 100")
	case p.TotalStock < 0:
		return invalid("Total stock must be non-negative")
	}
	return nil
}
