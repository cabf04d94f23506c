package sendemail

import (
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNotConfigured = errors.New("email delivery is not configured")

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type EmailService interface {
	SendEmail(subject, toEmail, plainTextContent, htmlContent string) error
}

type emailService struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

// NewEmailService sends through SendGrid. Without an API key every send fails with ErrNotConfigured.
func NewEmailService(apiKey, senderEmail, senderName string) EmailService {
	return newEmailService(apiKey, senderEmail, senderName, sendgridHost)
}

func newEmailService(apiKey, senderEmail, senderName, host string) EmailService {
	if apiKey == "" {
		return &emailService{senderEmail: senderEmail, senderName: senderName}
	}
	req := sendgrid.GetRequest(apiKey, sendgridEndpoint, host)
	req.Method = "POST"
	return &emailService{
		client:      &sendgrid.Client{Request: req},
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (e *emailService) SendEmail(subject, toEmail, plainTextContent, htmlContent string) error {
	if e.client == nil {
		return ErrNotConfigured
	}
	from := mail.NewEmail(e.senderName, e.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	response, err := e.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid status %d", response.StatusCode)
	}
	return nil
}
