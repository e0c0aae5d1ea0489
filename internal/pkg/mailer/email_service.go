// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type Receipt struct {
	ToEmail        string
	FullName       string
	PlanName       string
	CreditsGranted int
	Amount         string // already formatted with currency
	TransactionId  string
	NewBalance     int
}

type IEmailService interface {
	SendPurchaseReceipt(r Receipt) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	if host == "" {
		return &noopEmailService{}
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendPurchaseReceipt(r Receipt) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", r.ToEmail)
	m.SetHeader("Subject", fmt.Sprintf("Receipt: %d credits added", r.CreditsGranted))
	m.SetBody("text/html", RenderReceipt(r))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", r.ToEmail, err)
	}
	return nil
}

func RenderReceipt(r Receipt) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your purchase, %s!</h2>
			<p>Your <strong>%s</strong> plan payment was confirmed.</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;">Credits added</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Amount paid</td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">New balance</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Transaction</td><td>%s</td></tr>
			</table>
		</div>
	`,
		html.EscapeString(r.FullName),
		html.EscapeString(r.PlanName),
		r.CreditsGranted,
		html.EscapeString(r.Amount),
		r.NewBalance,
		html.EscapeString(r.TransactionId),
	)
}

// noopEmailService is used when SMTP is not configured.
type noopEmailService struct{}

func (noopEmailService) SendPurchaseReceipt(Receipt) error { return nil }
