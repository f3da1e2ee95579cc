package handlers

import (
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"
	"bazaar_back_end/internal/utils"
)

// ProductView is the public shape of a product. Cost, stock and vendor fields
// are only filled for admins and vendors.
type ProductView struct {
	ID                  uint       `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Price               float64    `json:"price"`
	PriceBeforeDiscount float64    `json:"price_before_discount"`
	PriceAfterDiscount  float64    `json:"price_after_discount"`
	DiscountPercentage  float64    `json:"discount_percentage"`
	StockRemaining      int        `json:"stock_remaining"`
	Category            string     `json:"category"`
	ImageURL            string     `json:"image_url"`
	IsActive            bool       `json:"is_active"`
	ProductRating       float64    `json:"product_rating"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`

	ExpenditureCostINR *float64 `json:"expenditure_cost_inr,omitempty"`
	TotalStock         *int     `json:"total_stock,omitempty"`
	ProfitPerItemINR   *float64 `json:"profit_per_item_inr,omitempty"`
	VendorID           *uint    `json:"vendor_id,omitempty"`
}

func NewProductView(p *models.Product, viewer services.Viewer) ProductView {
	v := ProductView{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		PriceBeforeDiscount: p.PriceBeforeDiscount,
		PriceAfterDiscount:  p.PriceAfterDiscount,
		DiscountPercentage:  p.DiscountPercentage,
		StockRemaining:      p.StockRemaining,
		Category:            p.Category,
		ImageURL:            p.ImageURL,
		IsActive:            p.IsActive,
		ProductRating:       p.ProductRating,
		CreatedAt:           utils.ToIST(p.CreatedAt),
		UpdatedAt:           utils.ToIST(p.UpdatedAt),
	}
	if p.DeletedAt != nil {
		deleted := utils.ToIST(*p.DeletedAt)
		v.DeletedAt = &deleted
	}
	if viewer.Privileged() {
		cost, stock, profit := p.ExpenditureCostINR, p.TotalStock, p.ProfitPerItemINR
		v.ExpenditureCostINR = &cost
		v.TotalStock = &stock
		v.ProfitPerItemINR = &profit
		v.VendorID = p.VendorID
	}
	return v
}

func NewProductViews(products []models.Product, viewer services.Viewer) []ProductView {
	out := make([]ProductView, 0, len(products))
	for i := range products {
		out = append(out, NewProductView(&products[i], viewer))
	}
	return out
}

// UserIST returns a copy of u with timestamps in IST.
func UserIST(u models.User) models.User {
	u.CreatedAt = utils.ToIST(u.CreatedAt)
	u.UpdatedAt = utils.ToIST(u.UpdatedAt)
	return u
}

func UsersIST(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, UserIST(u))
	}
	return out
}

// OrderIST returns a copy of o with timestamps in IST. Line items keep their
// product snapshot but drop the private product fields.
func OrderIST(o models.Order) models.Order {
	o.CreatedAt = utils.ToIST(o.CreatedAt)
	o.UpdatedAt = utils.ToIST(o.UpdatedAt)
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		if items[i].Product != nil {
			p := ProductIST(*items[i].Product)
			items[i].Product = &p
		}
	}
	o.Items = items
	return o
}

func OrdersIST(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderIST(o))
	}
	return out
}

// ProductIST strips private fields from an embedded product and converts its timestamps.
func ProductIST(p models.Product) models.Product {
	p.ExpenditureCostINR = 0
	p.ProfitPerItemINR = 0
	p.VendorID = nil
	p.CreatedAt = utils.ToIST(p.CreatedAt)
	p.UpdatedAt = utils.ToIST(p.UpdatedAt)
	return p
}

func ReviewsIST(reviews []models.Review) []models.Review {
	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		r.CreatedAt = utils.ToIST(r.CreatedAt)
		out = append(out, r)
	}
	return out
}

func EventsIST(events []models.OrderEvent) []models.OrderEvent {
	out := make([]models.OrderEvent, 0, len(events))
	for _, e := range events {
		e.OccurredAt = utils.ToIST(e.OccurredAt)
		out = append(out, e)
	}
	return out
}
