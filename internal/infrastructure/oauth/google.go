// Package oauth runs the Google authorization-code handshake.
package oauth

import (
	"context"
	"errors"
	"fmt"

	"mediconnect/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrEmailNotVerified = errors.New("google account email is not verified")
)

// Identity is the verified profile returned by the provider
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type googleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(cfg config.GoogleConfig) IdentityProvider {
	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				googleoauth2.UserinfoProfileScope,
				googleoauth2.UserinfoEmailScope,
			},
		},
	}
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	service, err := googleoauth2.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}

	if userInfo.VerifiedEmail != nil && !*userInfo.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	return &Identity{
		ExternalID: userInfo.Id,
		Email:      userInfo.Email,
		Name:       userInfo.Name,
	}, nil
}
