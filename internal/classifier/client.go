// Package classifier calls a hosted facial-expression image classifier.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/justestif/feelora/internal/emotion"
	"github.com/justestif/feelora/internal/logger"
)

// DefaultURL is the hosted inference endpoint of the pretrained FER model.
const DefaultURL = "https://api-inference.huggingface.co/models/jlassi/vit-Facial-Expression-Recognition"

const userAgent = "feelora/1.0"

// Sentinel errors.
var (
	// ErrModelUnavailable is returned when the model is still loading after retries.
	ErrModelUnavailable = errors.New("classifier model unavailable")

	// ErrUnauthorized is returned when the endpoint rejects the token.
	ErrUnauthorized = errors.New("classifier rejected credentials")

	// ErrNoPredictions is returned when the endpoint answers with no scores.
	ErrNoPredictions = errors.New("classifier returned no predictions")
)

// Config holds classifier endpoint configuration.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client is an HTTP client for an image-classification inference endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	// retryDelays are the waits between attempts while the model is loading.
	retryDelays []time.Duration
}

// NewClient creates a classifier client from the provided configuration.
func NewClient(cfg Config) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:         url,
		token:       cfg.Token,
		httpClient:  &http.Client{Timeout: timeout},
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Classify sends a JPEG image and returns the top-5 ranked expression scores.
func (c *Client) Classify(ctx context.Context, image []byte) (emotion.Prediction, error) {
	body, err := c.doRequest(ctx, image)
	if err != nil {
		return nil, err
	}

	var resp []labelScore
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing classifier response: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrNoPredictions
	}

	scores := make([]emotion.Score, 0, len(resp))
	for _, ls := range resp {
		label, known := emotion.ParseLabel(ls.Label)
		if !known {
			logger.Warn("classifier: unrecognized label", logger.Fields{"label": ls.Label})
		}
		scores = append(scores, emotion.Score{Label: label, Confidence: ls.Score})
	}

	return emotion.Rank(scores, emotion.TopK), nil
}

// doRequest posts the image, retrying while the model reports it is loading.
func (c *Client) doRequest(ctx context.Context, image []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, image)
		if err == nil {
			return body, nil
		}

		if errors.Is(err, ErrModelUnavailable) {
			lastErr = err
			logger.Info("classifier: model loading, retrying", logger.Fields{"attempt": attempt + 1})
			continue
		}

		return nil, err
	}

	return nil, lastErr
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, image []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, ErrModelUnavailable
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return nil, fmt.Errorf("classifier error (status %d): %s", resp.StatusCode, apiErr.Error)
	}
	return nil, fmt.Errorf("classifier error: status %d", resp.StatusCode)
}
