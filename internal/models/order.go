package models

import "time"

const (
	StatusPending   = "Pending"
	StatusPaid      = "Paid"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

// Order keeps a snapshot of the cart lines at placement time.
// PaymentStatus and ShipmentStatus are nil until the order enters the lifecycle.
type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	UserID         uint        `json:"user_id" gorm:"index;not null"`
	TotalPrice     float64     `json:"total_price" gorm:"not null"`
	Status         string      `json:"status" gorm:"size:16;not null"`
	PaymentStatus  *string     `json:"payment_status" gorm:"size:16;index"`
	ShipmentStatus *string     `json:"shipment_status" gorm:"size:16"`
	TransactionID  *string     `json:"transaction_id" gorm:"size:12;uniqueIndex"`
	TrackingID     *string     `json:"tracking_id" gorm:"size:10"`
	Items          []OrderItem `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	OrderID   uint     `json:"order_id" gorm:"index;not null"`
	ProductID uint     `json:"product_id" gorm:"index;not null"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Price     float64  `json:"price" gorm:"not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// StatusOf dereferences a nullable lifecycle column.
func StatusOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
