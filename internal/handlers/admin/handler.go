// Package admin serves user management and sales analytics to administrators.
package admin

import "bazaar_back_end/internal/services"

type Handler struct {
	users *services.UserService
	sales *services.SalesService
}

func NewHandler(users *services.UserService, sales *services.SalesService) *Handler {
	return &Handler{users: users, sales: sales}
}
