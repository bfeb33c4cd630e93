// Package email implements the verification-email collaborator over a JSON
// mail-delivery API.
package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tiendafast/identity-service/internal/core/ports"
)

const requestTimeout = 10 * time.Second

// Config holds the mail-API settings.
type Config struct {
	APIURL  string
	APIKey  string
	From    string
	// VerifyBaseURL is the public verification endpoint the link points at;
	// the token and address are appended as query parameters.
	VerifyBaseURL string
}

// Mailer delivers verification emails through an HTTP mail API.
type Mailer struct {
	client *resty.Client
	cfg    Config
}

func NewMailer(cfg Config) *Mailer {
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(requestTimeout).
		SetHeader("Authorization", "Bearer "+cfg.APIKey)
	return &Mailer{client: client, cfg: cfg}
}

type sendRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
}

// Send posts one verification email. The raw token appears only in the
// link; it is never logged.
func (m *Mailer) Send(ctx context.Context, job ports.MailJob) error {
	link := fmt.Sprintf("%s?token=%s&email=%s",
		m.cfg.VerifyBaseURL, url.QueryEscape(job.Token), url.QueryEscape(job.To))

	body := sendRequest{
		From:     m.cfg.From,
		To:       job.To,
		ToName:   job.Name,
		Subject:  "Verify your email address",
		TextBody: fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below within 24 hours:\n\n%s\n", job.Name, link),
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v1/messages")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail: provider returned %s", resp.Status())
	}
	return nil
}
