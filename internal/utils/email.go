package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"bazaar_back_end/internal/models"

	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional emails, throttled to protect the SMTP relay.
type Mailer struct {
	cfg     SMTPConfig
	limiter *rate.Limiter
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

var paymentTemplate = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Payment received</h2>
		<p>Hello {{.Username}},</p>
		<p>We received your payment of <strong>INR {{printf "%.2f" .Total}}</strong> for order #{{.OrderID}}.</p>
		<p>Transaction ID: <strong>{{.TransactionID}}</strong><br>
		Tracking ID: <strong>{{.TrackingID}}</strong></p>
		<p style="margin-top: 30px; color: #555;">Thank you for shopping with us.</p>
	</div>
</body>
</html>`))

// PaymentConfirmationHTML renders the payment confirmation body.
func PaymentConfirmationHTML(username string, order *models.Order) (string, error) {
	var buf bytes.Buffer
	err := paymentTemplate.Execute(&buf, map[string]any{
		"Username":      username,
		"OrderID":       order.ID,
		"Total":         order.TotalPrice,
		"TransactionID": models.StatusOf(order.TransactionID),
		"TrackingID":    models.StatusOf(order.TrackingID),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Mailer) SendPaymentConfirmation(ctx context.Context, to, username string, order *models.Order) error {
	body, err := PaymentConfirmationHTML(username, order)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	return m.send(ctx, to, fmt.Sprintf("Payment confirmed for order #%d", order.ID), body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", to)
	return client.DialAndSendWithContext(ctx, msg)
}
