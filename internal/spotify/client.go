// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/justestif/feelora/internal/auth"
	"github.com/justestif/feelora/internal/tracks"
)

// DefaultTimeout bounds every individual Spotify call.
const DefaultTimeout = 5 * time.Second

// Client wraps the Spotify API client with the read-only calls the selector needs.
type Client struct {
	api     *spotify.Client
	timeout time.Duration
}

var _ tracks.Catalog = (*Client)(nil)

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{api: api, timeout: timeout}
}

// Connector creates a freshly authenticated Client for every search.
type Connector struct {
	creds      auth.Credentials
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
}

var _ tracks.Connector = (*Connector)(nil)

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithHTTPClient sets the HTTP client used for token exchange and API calls.
func WithHTTPClient(c *http.Client) ConnectorOption {
	return func(conn *Connector) {
		if c != nil {
			conn.httpClient = c
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ConnectorOption {
	return func(conn *Connector) {
		if d > 0 {
			conn.timeout = d
		}
	}
}

// WithBaseURL points API calls at an alternative endpoint. The URL must end in "/".
func WithBaseURL(url string) ConnectorOption {
	return func(conn *Connector) {
		conn.baseURL = url
	}
}

// NewConnector creates a Connector for the given credentials.
func NewConnector(creds auth.Credentials, opts ...ConnectorOption) *Connector {
	c := &Connector{
		creds:   creds,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Connect exchanges the credentials for a new token and returns a Client using it.
func (c *Connector) Connect(ctx context.Context) (tracks.Catalog, error) {
	tokenCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := auth.FetchToken(tokenCtx, c.creds, c.httpClient)
	if err != nil {
		return nil, err
	}

	// oauth2.NewClient only reads the base transport from this context.
	clientCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	httpClient := oauth2.NewClient(clientCtx, oauth2.StaticTokenSource(token))

	opts := []spotify.ClientOption{}
	if c.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(c.baseURL))
	}

	return New(spotify.New(httpClient, opts...), c.timeout), nil
}
