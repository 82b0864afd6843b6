package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"cardsync/internal/config"
)

// NewOAuthConfig creates the OAuth2 config used for the Google login flow.
// The drive.file and spreadsheets scopes match what the sync operations need.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/drive.file",
			"https://www.googleapis.com/auth/spreadsheets",
		},
		Endpoint: google.Endpoint,
	}
}

// UserInfo is the identity returned by Google after a completed login.
type UserInfo struct {
	ID    string
	Email string
	Name  string
}

// FetchUserInfo resolves the authenticated user's identity from a token.
func FetchUserInfo(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*UserInfo, error) {
	client := config.Client(ctx, token)

	service, err := oauth2api.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	return &UserInfo{ID: info.Id, Email: info.Email, Name: info.Name}, nil
}
