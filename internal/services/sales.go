package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type SalesService struct {
	db *gorm.DB
}

func NewSalesService(db *gorm.DB) *SalesService {
	return &SalesService{db: db}
}

type MonthRevenue struct {
	Month        int     `json:"month"`
	TotalRevenue float64 `json:"total_revenue"`
}

type DaySales struct {
	Date         string  `json:"date"`
	DailyRevenue float64 `json:"daily_revenue"`
	OrdersCount  int     `json:"orders_count"`
}

type BestProduct struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	UnitsSold    int64   `json:"units_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	AveragePrice float64 `json:"average_price"`
}

type PopularProduct struct {
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	WishlistCount int64  `json:"wishlist_count"`
	CartCount     int64  `json:"cart_count"`
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// TotalRevenue sums every paid order.
func (s *SalesService) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("payment_status = ?", models.StatusPaid).
		Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return round2(decimal.NewFromFloat(total)), nil
}

// paidBetween loads paid orders created in [from, to).
func (s *SalesService) paidBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Select("id", "total_price", "created_at").
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", models.StatusPaid, from.UTC(), to.UTC()).
		Order("created_at").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load paid orders: %w", err)
	}
	return orders, nil
}

// MonthlyRevenue buckets a year's paid orders by IST calendar month. Months without sales are omitted.
func (s *SalesService) MonthlyRevenue(ctx context.Context, year int) ([]MonthRevenue, error) {
	if year < 1 || year > 9999 {
		return nil, invalid("Invalid year: %d", year)
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, utils.IST)
	orders, err := s.paidBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	sums := map[int]decimal.Decimal{}
	for _, o := range orders {
		m := int(utils.ToIST(o.CreatedAt).Month())
		sums[m] = sums[m].Add(decimal.NewFromFloat(o.TotalPrice))
	}

	out := make([]MonthRevenue, 0, len(sums))
	for m, sum := range sums {
		out = append(out, MonthRevenue{Month: m, TotalRevenue: round2(sum)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// DailySalesTrend buckets paid orders by IST day between two inclusive YYYY-MM-DD dates.
func (s *SalesService) DailySalesTrend(ctx context.Context, start, end string) ([]DaySales, error) {
	from, err := time.ParseInLocation(dateLayout, start, utils.IST)
	if err != nil {
		return nil, invalid("Invalid start_date, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, end, utils.IST)
	if err != nil {
		return nil, invalid("Invalid end_date, expected YYYY-MM-DD")
	}
	if from.After(to) {
		return nil, invalid("start_date must not be after end_date")
	}

	orders, err := s.paidBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sum   decimal.Decimal
		count int
	}
	days := map[string]*bucket{}
	for _, o := range orders {
		key := utils.ToIST(o.CreatedAt).Format(dateLayout)
		b, ok := days[key]
		if !ok {
			b = &bucket{}
			days[key] = b
		}
		b.sum = b.sum.Add(decimal.NewFromFloat(o.TotalPrice))
		b.count++
	}

	out := make([]DaySales, 0, len(days))
	for day, b := range days {
		out = append(out, DaySales{Date: day, DailyRevenue: round2(b.sum), OrdersCount: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// BestProducts ranks products by units sold in paid orders.
func (s *SalesService) BestProducts(ctx context.Context, limit int) ([]BestProduct, error) {
	if limit < 1 || limit > MaxPageSize {
		return nil, invalid("limit must be between 1 and %d", MaxPageSize)
	}

	out := []BestProduct{}
	err := s.db.WithContext(ctx).Table("order_items").
		Select(`products.id AS product_id, products.name AS name,
			SUM(order_items.quantity) AS units_sold,
			SUM(order_items.quantity * order_items.price) AS total_revenue,
			AVG(order_items.price) AS average_price`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.payment_status = ?", models.StatusPaid).
		Group("products.id, products.name").
		Order("units_sold DESC, products.id").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	for i := range out {
		out[i].TotalRevenue = round2(decimal.NewFromFloat(out[i].TotalRevenue))
		out[i].AveragePrice = round2(decimal.NewFromFloat(out[i].AveragePrice))
	}
	return out, nil
}

// PopularProducts ranks products by wishlist count, then cart count.
func (s *SalesService) PopularProducts(ctx context.Context, limit int) ([]PopularProduct, error) {
	if limit < 1 || limit > MaxPageSize {
		return nil, invalid("limit must be between 1 and %d", MaxPageSize)
	}

	type count struct {
		ProductID uint
		N         int64
	}
	var wishlists, carts []count
	if err := s.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Select("product_id, COUNT(*) AS n").Group("product_id").Scan(&wishlists).Error; err != nil {
		return nil, fmt.Errorf("failed to count wishlists: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Select("product_id, COUNT(*) AS n").Group("product_id").Scan(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to count carts: %w", err)
	}

	byID := map[uint]*PopularProduct{}
	get := func(id uint) *PopularProduct {
		p, ok := byID[id]
		if !ok {
			p = &PopularProduct{ProductID: id}
			byID[id] = p
		}
		return p
	}
	for _, w := range wishlists {
		get(w.ProductID).WishlistCount = w.N
	}
	for _, c := range carts {
		get(c.ProductID).CartCount = c.N
	}
	if len(byID) == 0 {
		return []PopularProduct{}, nil
	}

	ids := make([]uint, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range products {
		byID[p.ID].Name = p.Name
	}

	out := make([]PopularProduct, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WishlistCount != out[j].WishlistCount {
			return out[i].WishlistCount > out[j].WishlistCount
		}
		if out[i].CartCount != out[j].CartCount {
			return out[i].CartCount > out[j].CartCount
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
