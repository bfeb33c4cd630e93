// Package idp implements the identity-provider collaborator against
// Google's tokeninfo endpoint.
package idp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tiendafast/identity-service/internal/api/metrics"
	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

const (
	tokeninfoURL   = "https://oauth2.googleapis.com/tokeninfo"
	requestTimeout = 5 * time.Second
)

// GoogleVerifier validates Google ID tokens server-side. The round trip is
// bounded; a timeout surfaces as a retryable ErrProviderUnavailable.
type GoogleVerifier struct {
	client *resty.Client
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		client: resty.New().
			SetBaseURL(tokeninfoURL).
			SetTimeout(requestTimeout),
	}
}

type tokeninfoResponse struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// Verify exchanges the credential for the identity Google asserts,
// rejecting tokens minted for a different audience.
func (v *GoogleVerifier) Verify(ctx context.Context, credential, audience string) (*ports.ProviderIdentity, error) {
	var info tokeninfoResponse

	start := time.Now()
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", credential).
		SetResult(&info).
		Get("")
	metrics.ProviderRequestSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.IsError() {
		return nil, domain.ErrInvalidProviderCredential
	}

	if info.Audience != audience || info.Subject == "" {
		return nil, domain.ErrInvalidProviderCredential
	}

	return &ports.ProviderIdentity{
		Email:     info.Email,
		Name:      info.Name,
		SubjectID: info.Subject,
	}, nil
}
