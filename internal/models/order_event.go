package models

import "time"

const (
	EventOrderPlaced    = "order.placed"
	EventOrderPaid      = "order.paid"
	EventOrderShipped   = "order.shipped"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent is one entry of an order's timeline.
type OrderEvent struct {
	OrderID        uint      `json:"order_id"`
	UserID         uint      `json:"user_id"`
	Type           string    `json:"type"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	ShipmentStatus string    `json:"shipment_status,omitempty"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	TrackingID     string    `json:"tracking_id,omitempty"`
	TotalPrice     float64   `json:"total_price"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewOrderEvent(eventType string, o *Order, at time.Time) OrderEvent {
	evt := OrderEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Type:           eventType,
		PaymentStatus:  StatusOf(o.PaymentStatus),
		ShipmentStatus: StatusOf(o.ShipmentStatus),
		TotalPrice:     o.TotalPrice,
		OccurredAt:     at.UTC(),
	}
	if o.TransactionID != nil {
		evt.TransactionID = *o.TransactionID
	}
	if o.TrackingID != nil {
		evt.TrackingID = *o.TrackingID
	}
	return evt
}
