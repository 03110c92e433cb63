package utils

import (
	"fmt"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Mailer sends an HTML email
type Mailer interface {
	SendEmail(toEmail, subject, htmlContent string) error
}

// PostmarkMailer sends emails using Postmark
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

func NewPostmarkMailer(apiToken, sender string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

func (m *PostmarkMailer) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendgridMailer sends emails using SendGrid
type SendgridMailer struct {
	client *sendgrid.Client
	sender string
}

func NewSendgridMailer(apiKey, sender string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

func (m *SendgridMailer) SendEmail(toEmail, subject, htmlContent string) error {
	message := mail.NewSingleEmail(mail.NewEmail("", m.sender), subject, mail.NewEmail("", toEmail), htmlContent, htmlContent)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs outgoing mail. Used in development.
type LogMailer struct {
	Log logrus.FieldLogger
}

func (m LogMailer) SendEmail(toEmail, subject, htmlContent string) error {
	m.Log.WithFields(logrus.Fields{
		"to":      toEmail,
		"subject": subject,
		"body":    htmlContent,
	}).Info("email not sent, log mailer")
	return nil
}

// SendPasswordResetEmail sends the password reset link to the user
func SendPasswordResetEmail(m Mailer, toEmail, resetLink string) error {
	subject := "Reset Your Password"
	htmlContent := fmt.Sprintf(
		"<strong>We received a request to reset your password.</strong> <a href=\"%s\">Reset Password</a><br><br>The link expires in one hour.",
		resetLink,
	)
	return m.SendEmail(toEmail, subject, htmlContent)
}
