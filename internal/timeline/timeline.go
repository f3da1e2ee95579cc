// Package timeline stores order lifecycle events in ScyllaDB.
package timeline

import (
	"context"
	"fmt"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/gocql/gocql"
)

const createTable = `CREATE TABLE IF NOT EXISTS order_events (
	order_id bigint,
	occurred_at timeuuid,
	user_id bigint,
	event_type text,
	payment_status text,
	shipment_status text,
	transaction_id text,
	tracking_id text,
	total_price double,
	PRIMARY KEY (order_id, occurred_at)
) WITH CLUSTERING ORDER BY (occurred_at ASC)`

const insertEvent = `INSERT INTO order_events
	(order_id, occurred_at, user_id, event_type, payment_status, shipment_status, transaction_id, tracking_id, total_price)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectEvents = `SELECT occurred_at, user_id, event_type, payment_status, shipment_status,
	transaction_id, tracking_id, total_price FROM order_events WHERE order_id = ?`

// SessionProvider hands out a live session, reconnecting when needed.
type SessionProvider interface {
	Session() (*gocql.Session, error)
}

type Store struct {
	sessions SessionProvider
}

func NewStore(sessions SessionProvider) *Store {
	return &Store{sessions: sessions}
}

// EnsureSchema creates the events table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	session, err := s.sessions.Session()
	if err != nil {
		return err
	}
	if err := session.Query(createTable).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to create order_events: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, evt models.OrderEvent) error {
	session, err := s.sessions.Session()
	if err != nil {
		return err
	}

	err = session.Query(insertEvent,
		int64(evt.OrderID),
		gocql.UUIDFromTime(evt.OccurredAt),
		int64(evt.UserID),
		evt.Type,
		evt.PaymentStatus,
		evt.ShipmentStatus,
		evt.TransactionID,
		evt.TrackingID,
		evt.TotalPrice,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to append event for order %d: %w", evt.OrderID, err)
	}
	return nil
}

// List returns the order's events, oldest first.
func (s *Store) List(ctx context.Context, orderID uint) ([]models.OrderEvent, error) {
	session, err := s.sessions.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(selectEvents, int64(orderID)).WithContext(ctx).Iter()

	events := []models.OrderEvent{}
	var r row
	for iter.Scan(&r.occurredAt, &r.userID, &r.eventType, &r.paymentStatus, &r.shipmentStatus,
		&r.transactionID, &r.trackingID, &r.totalPrice) {
		events = append(events, r.toEvent(orderID))
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read events for order %d: %w", orderID, err)
	}
	return events, nil
}

type row struct {
	occurredAt     gocql.UUID
	userID         int64
	eventType      string
	paymentStatus  string
	shipmentStatus string
	transactionID  string
	trackingID     string
	totalPrice     float64
}

func (r row) toEvent(orderID uint) models.OrderEvent {
	return models.OrderEvent{
		OrderID:        orderID,
		UserID:         uint(r.userID),
		Type:           r.eventType,
		PaymentStatus:  r.paymentStatus,
		ShipmentStatus: r.shipmentStatus,
		TransactionID:  r.transactionID,
		TrackingID:     r.trackingID,
		TotalPrice:     r.totalPrice,
		OccurredAt:     r.occurredAt.Time().UTC().Truncate(time.Millisecond),
	}
}
