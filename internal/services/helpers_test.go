package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"bazaar_back_end/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (r *recordingSink) Emit(_ context.Context, evt models.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeIndex struct {
	ids      []uint
	err      error
	indexed  map[uint]bool
	searches int
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	if f.indexed == nil {
		f.indexed = map[uint]bool{}
	}
	f.indexed[p.ID] = p.IsActive
	return nil
}

func (f *fakeIndex) SearchProductIDs(_ context.Context, _ string, _ bool, _ int) ([]uint, error) {
	f.searches++
	return f.ids, f.err
}

type fakeImages struct {
	keys []string
}

func (f *fakeImages) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "http://images.test/" + key, nil
}

type fakeTimeline struct {
	events map[uint][]models.OrderEvent
	err    error
}

func (f *fakeTimeline) List(_ context.Context, orderID uint) ([]models.OrderEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[orderID], nil
}

type fakeReceipts struct {
	sent chan string
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{sent: make(chan string, 4)}
}

func (f *fakeReceipts) SendPaymentConfirmation(_ context.Context, to, _ string, order *models.Order) error {
	f.sent <- fmt.Sprintf("%s:%d", to, order.ID)
	return nil
}

type failingRevocations struct{}

func (failingRevocations) BlacklistToken(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingRevocations) IsTokenBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}

func ratingOf(v float64) *float64 { return &v }
