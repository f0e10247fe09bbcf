// Package auth exchanges Spotify client credentials for access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrMissingCredentials is returned when the client id or secret is empty.
	ErrMissingCredentials = errors.New("missing SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET")

	// ErrEmptyToken is returned when the token endpoint answers without an access token.
	ErrEmptyToken = errors.New("token response has no access token")
)

// Credentials identify the application to the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// TokenURL defaults to Spotify's accounts service.
	TokenURL string
}

// Validate returns ErrMissingCredentials if the id or secret is not set.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c Credentials) config() *clientcredentials.Config {
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	return &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
}

// FetchToken performs a client-credentials grant and returns a new token.
// Tokens are not cached: every call contacts the token endpoint.
// A nil httpClient uses http.DefaultClient.
func FetchToken(ctx context.Context, creds Credentials, httpClient *http.Client) (*oauth2.Token, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	token, err := creds.config().Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchanging client credentials: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrEmptyToken
	}
	return token, nil
}
