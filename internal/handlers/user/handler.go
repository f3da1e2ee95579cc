// Package user serves account, cart, wishlist and order endpoints for signed-in customers.
package user

import (
	"context"

	"bazaar_back_end/internal/services"

	"github.com/redis/go-redis/v9"
)

// OrderSubscriber streams a user's order events.
type OrderSubscriber interface {
	Subscribe(ctx context.Context, userID uint) *redis.PubSub
}

type Handler struct {
	auth   *services.AuthService
	users  *services.UserService
	cart   *services.CartService
	orders *services.OrderService
	events OrderSubscriber
}

func NewHandler(auth *services.AuthService, users *services.UserService, cart *services.CartService, orders *services.OrderService, events OrderSubscriber) *Handler {
	return &Handler{auth: auth, users: users, cart: cart, orders: orders, events: events}
}
