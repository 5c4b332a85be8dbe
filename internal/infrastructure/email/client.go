// Package email provides the email client for sending engagement digests.
package email

import (
	"fmt"
	"os"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendEngagementReport(toEmail, periodLabel string, totalEvents int, topEntities []templates.ReportEntityRow) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("REPORT_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "analytics@bellyfed.com"
	}

	fromName := os.Getenv("REPORT_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Bellyfed Analytics"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendEngagementReport composes and sends the periodic engagement digest.
func (c *ResendClient) SendEngagementReport(toEmail, periodLabel string, totalEvents int, topEntities []templates.ReportEntityRow) error {
	subject := fmt.Sprintf("Bellyfed engagement digest: %s", periodLabel)

	content := templates.GetReportEmailContent(templates.ReportEmailProps{
		PeriodLabel: periodLabel,
		TotalEvents: totalEvents,
		TopEntities: topEntities,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send engagement report via Resend: %w", err)
	}

	return nil
}
