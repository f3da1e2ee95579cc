// Package payment serves payment, shipment and invoice endpoints.
package payment

import (
	"context"

	"bazaar_back_end/internal/services"
)

// PDFRenderer turns an HTML document into a PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	orders *services.OrderService
	users  *services.UserService
	pdf    PDFRenderer
}

func NewHandler(orders *services.OrderService, users *services.UserService, pdf PDFRenderer) *Handler {
	return &Handler{orders: orders, users: users, pdf: pdf}
}
