package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// TrackingQRPNG encodes a tracking id as a PNG QR code.
func TrackingQRPNG(trackingID string, size int) ([]byte, error) {
	if trackingID == "" {
		return nil, fmt.Errorf("empty tracking id")
	}
	return qrcode.Encode(trackingID, qrcode.Medium, size)
}

// QRDataURI returns the QR code as a data URI usable in <img src>.
func QRDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

type InvoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Total     float64
}

type InvoiceData struct {
	OrderID       uint
	Customer      string
	Email         string
	IssuedAt      string
	TransactionID string
	TrackingID    string
	Lines         []InvoiceLine
	Total         float64
	QR            template.URL
}

// NewInvoiceData prepares an invoice for a paid order. Items must have their product loaded.
func NewInvoiceData(order *models.Order, user *models.User) (*InvoiceData, error) {
	data := &InvoiceData{
		OrderID:       order.ID,
		Customer:      user.Username,
		Email:         user.Email,
		IssuedAt:      ToIST(order.UpdatedAt).Format("02 Jan 2006 15:04 MST"),
		TransactionID: models.StatusOf(order.TransactionID),
		TrackingID:    models.StatusOf(order.TrackingID),
		Total:         order.TotalPrice,
	}
	for _, it := range order.Items {
		name := fmt.Sprintf("Product #%d", it.ProductID)
		if it.Product != nil {
			name = it.Product.Name
		}
		data.Lines = append(data.Lines, InvoiceLine{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Total:     it.Price * float64(it.Quantity),
		})
	}

	if data.TrackingID != "" {
		qr, err := QRDataURI(data.TrackingID)
		if err != nil {
			return nil, fmt.Errorf("failed to build QR code: %w", err)
		}
		data.QR = template.URL(qr)
	}
	return data, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Invoice #{{.OrderID}}</title>
	<style>
		body { font-family: Arial, sans-serif; color: #222; margin: 40px; }
		table { width: 100%; border-collapse: collapse; margin: 24px 0; }
		th, td { padding: 8px; border: 1px solid #ddd; text-align: left; }
		th { background: #f0f0f0; }
		.total { text-align: right; font-weight: bold; }
	</style>
</head>
<body>
	<h1>Invoice #{{.OrderID}}</h1>
	<p>Billed to <strong>{{.Customer}}</strong> ({{.Email}})<br>Issued {{.IssuedAt}}</p>
	<p>Transaction ID: {{.TransactionID}}<br>Tracking ID: {{.TrackingID}}</p>
	<table>
		<thead><tr><th>Product</th><th>Qty</th><th>Unit price (INR)</th><th>Total (INR)</th></tr></thead>
		<tbody>
		{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .UnitPrice}}</td><td>{{printf "%.2f" .Total}}</td></tr>
		{{end}}</tbody>
		<tfoot><tr><td colspan="3" class="total">Total</td><td><strong>{{printf "%.2f" .Total}}</strong></td></tr></tfoot>
	</table>
	{{if .QR}}<img src="{{.QR}}" alt="Tracking QR" width="160" height="160">{{end}}
</body>
</html>`))

func RenderInvoiceHTML(data *InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}

// PDFRenderer prints HTML to PDF with headless Chrome.
type PDFRenderer struct {
	timeout time.Duration
}

func NewPDFRenderer(timeout time.Duration) *PDFRenderer {
	return &PDFRenderer{timeout: timeout}
}

func (r *PDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox, chromedp.DisableGPU)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print invoice: %w", err)
	}
	return pdf, nil
}
