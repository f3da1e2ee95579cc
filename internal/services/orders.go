package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventSink receives order lifecycle events. Delivery is best effort.
type EventSink interface {
	Emit(ctx context.Context, evt models.OrderEvent)
}

// ReceiptSender notifies a customer that their payment went through.
type ReceiptSender interface {
	SendPaymentConfirmation(ctx context.Context, to, username string, order *models.Order) error
}

// TimelineReader returns the recorded events of an order, oldest first.
type TimelineReader interface {
	List(ctx context.Context, orderID uint) ([]models.OrderEvent, error)
}

type OrderOptions struct {
	Events   EventSink
	Cache    ProductCacher
	Receipts ReceiptSender
	Timeline TimelineReader
	// RequireTrackingMatch makes shipping demand the tracking id issued at payment.
	RequireTrackingMatch bool
}

type OrderService struct {
	db   *gorm.DB
	opts OrderOptions
}

func NewOrderService(db *gorm.DB, opts OrderOptions) *OrderService {
	return &OrderService{db: db, opts: opts}
}

func strPtr(s string) *string { return &s }

// Place turns the cart into an order. All lines are checked before any stock moves,
// and the whole placement commits or rolls back as one transaction.
func (s *OrderService) Place(ctx context.Context, userID uint) (*models.Order, error) {
	var order *models.Order
	var productIDs []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(lines) == 0 {
			return invalid("Cart is empty")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			p := line.Product
			if p.ID == 0 || !p.IsActive {
				return invalid("Product %d is no longer available", line.ProductID)
			}
			if line.Quantity > p.StockRemaining {
				return invalid("Insufficient stock for %s: requested %d, available %d",
					p.Name, line.Quantity, p.StockRemaining)
			}
			total = total.Add(lineTotal(p.PriceAfterDiscount, line.Quantity))
			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.PriceAfterDiscount,
			})
			productIDs = append(productIDs, p.ID)
		}

		order = &models.Order{
			UserID:         userID,
			TotalPrice:     total.InexactFloat64(),
			Status:         models.StatusPending,
			PaymentStatus:  strPtr(models.StatusPending),
			ShipmentStatus: strPtr(models.StatusPending),
			Items:          items,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, it := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_remaining >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock_remaining", gorm.Expr("stock_remaining - ?", it.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", res.Error)
			}
			if res.RowsAffected != 1 {
				return invalid("Insufficient stock for product %d", it.ProductID)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, productIDs...)
	s.emit(ctx, models.EventOrderPlaced, order)
	log.Printf("✅ Order %d placed by user %d (total %.2f)", order.ID, userID, order.TotalPrice)
	return order, nil
}

func (s *OrderService) load(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// Get returns an order to its owner or an admin.
func (s *OrderService) Get(ctx context.Context, viewer Viewer, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != viewer.UserID && !viewer.IsAdmin() {
		return nil, forbidden("You do not have access to this order")
	}
	return order, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListPaid returns every paid order, newest first.
func (s *OrderService) ListPaid(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Preload("Items").Where("payment_status = ?", models.StatusPaid).
		Order("created_at DESC, id DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list paid orders: %w", err)
	}
	return orders, nil
}

// Cancel deletes an order that has not shipped and puts its stock back.
func (s *OrderService) Cancel(ctx context.Context, viewer Viewer, id uint) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if order.UserID != viewer.UserID {
		return forbidden("You can only cancel your own orders")
	}
	if st := models.StatusOf(order.ShipmentStatus); st == models.StatusShipped || st == models.StatusDelivered {
		return conflict("Order already %s and cannot be cancelled", st)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		res := tx.Where("id = ? AND (shipment_status IS NULL OR shipment_status NOT IN ?)",
			id, []string{models.StatusShipped, models.StatusDelivered}).Delete(&models.Order{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Order can no longer be cancelled")
		}

		for _, it := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", it.ProductID).
				UpdateColumn("stock_remaining", gorm.Expr("stock_remaining + ?", it.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.ProductID)
	}
	s.invalidate(ctx, ids...)
	s.emit(ctx, models.EventOrderCancelled, order)
	log.Printf("🗑️ Order %d cancelled, stock restored", id)
	return nil
}

// Pay simulates a payment. It succeeds at most once per order.
func (s *OrderService) Pay(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, forbidden("You can only pay for your own orders")
	}
	if models.StatusOf(order.PaymentStatus) == models.StatusPaid {
		return nil, alreadyPaid(order)
	}

	txnID, err := utils.NewTransactionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	trackingID, err := utils.NewTrackingID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tracking id: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND (payment_status IS NULL OR payment_status <> ?)", id, userID, models.StatusPaid).
		Updates(map[string]any{
			"payment_status":  models.StatusPaid,
			"shipment_status": models.StatusPending,
			"transaction_id":  txnID,
			"tracking_id":     trackingID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to record payment: %w", res.Error)
	}

	order, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, alreadyPaid(order)
	}

	s.emit(ctx, models.EventOrderPaid, order)
	s.sendReceipt(ctx, order)
	log.Printf("💳 Order %d paid (transaction %s)", id, txnID)
	return order, nil
}

func alreadyPaid(order *models.Order) error {
	return conflict("Order already paid. Transaction ID: %s", models.StatusOf(order.TransactionID))
}

// sendReceipt mails the confirmation in the background once the recipient is known.
func (s *OrderService) sendReceipt(ctx context.Context, order *models.Order) {
	if s.opts.Receipts == nil {
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "username", "email").First(&user, order.UserID).Error; err != nil {
		log.Printf("⚠️ No receipt for order %d: %v", order.ID, err)
		return
	}

	go func(o models.Order) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.opts.Receipts.SendPaymentConfirmation(sendCtx, user.Email, user.Username, &o); err != nil {
			log.Printf("❌ Failed to send receipt for order %d: %v", o.ID, err)
		}
	}(*order)
}

// Ship marks a paid order as shipped. Shipping an already shipped order returns it unchanged.
func (s *OrderService) Ship(ctx context.Context, id uint, trackingID string) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkShippable(order, trackingID); err != nil {
		return nil, err
	}
	if models.StatusOf(order.ShipmentStatus) == models.StatusShipped {
		return order, nil
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ? AND (shipment_status IS NULL OR shipment_status = ?)",
			id, models.StatusPaid, models.StatusPending).
		Update("shipment_status", models.StatusShipped)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update shipment: %w", res.Error)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		if models.StatusOf(updated.ShipmentStatus) == models.StatusShipped {
			return updated, nil
		}
		return nil, conflict("Order status changed concurrently, current status: %s", models.StatusOf(updated.ShipmentStatus))
	}

	s.emit(ctx, models.EventOrderShipped, updated)
	log.Printf("📦 Order %d shipped", id)
	return updated, nil
}

func (s *OrderService) checkShippable(order *models.Order, trackingID string) error {
	if models.StatusOf(order.PaymentStatus) != models.StatusPaid {
		return invalid("Order must be paid before it can be shipped")
	}
	if models.StatusOf(order.ShipmentStatus) == models.StatusDelivered {
		return conflict("Order already delivered")
	}
	if s.opts.RequireTrackingMatch {
		if trackingID == "" {
			return invalid("Tracking ID is required")
		}
		if trackingID != models.StatusOf(order.TrackingID) {
			return invalid("Tracking ID does not match this order")
		}
	}
	return nil
}

// Deliver moves a shipped order to Delivered.
func (s *OrderService) Deliver(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch st := models.StatusOf(order.ShipmentStatus); st {
	case models.StatusDelivered:
		return nil, conflict("Order already delivered")
	case models.StatusShipped:
	default:
		if st == "" {
			st = "none"
		}
		return nil, invalid("Order not yet shipped. Current status: %s", st)
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND shipment_status = ?", id, models.StatusShipped).
		Update("shipment_status", models.StatusDelivered)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update shipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("Order already delivered")
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, models.EventOrderDelivered, updated)
	log.Printf("✅ Order %d delivered", id)
	return updated, nil
}

// Timeline returns the order's recorded events to its owner or an admin.
func (s *OrderService) Timeline(ctx context.Context, viewer Viewer, id uint) ([]models.OrderEvent, error) {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return nil, err
	}
	if s.opts.Timeline == nil {
		return nil, unavailable("Order timeline is not configured")
	}
	events, err := s.opts.Timeline.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline: %w", err)
	}
	return events, nil
}

func (s *OrderService) emit(ctx context.Context, eventType string, order *models.Order) {
	if s.opts.Events == nil {
		return
	}
	s.opts.Events.Emit(ctx, models.NewOrderEvent(eventType, order, time.Now()))
}

func (s *OrderService) invalidate(ctx context.Context, ids ...uint) {
	if s.opts.Cache != nil {
		s.opts.Cache.Invalidate(ctx, ids...)
	}
}
