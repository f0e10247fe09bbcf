// Package analysis turns an uploaded photo into a mood receipt.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/feelora/internal/emotion"
	"github.com/justestif/feelora/internal/imaging"
	"github.com/justestif/feelora/internal/logger"
	"github.com/justestif/feelora/internal/receipt"
	"github.com/justestif/feelora/internal/tracks"
)

// PhotoPaletteSize is the number of dominant colours extracted from a photo.
const PhotoPaletteSize = 5

// Sentinel errors.
var (
	// ErrInvalidImage is returned when the upload cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")

	// ErrClassification is returned when the expression classifier fails.
	ErrClassification = errors.New("classification failed")

	// ErrNoSample is returned when no sample image URL is configured.
	ErrNoSample = errors.New("no sample image configured")
)

// Classifier predicts facial expressions from a JPEG image.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (emotion.Prediction, error)
}

// TrackSelector picks a track for a mood. It never fails.
type TrackSelector interface {
	Select(ctx context.Context, label emotion.Label, language string) tracks.Track
}

// Request is one analysis request.
type Request struct {
	Image    []byte
	Language string
}

// Service runs the analysis pipeline.
type Service struct {
	classifier Classifier
	selector   TrackSelector
	httpClient *http.Client
	sampleURL  string
	now        func() time.Time
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for receipt dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the function used for receipt IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSampleImage sets the URL and HTTP client used by AnalyzeSample.
func WithSampleImage(url string, client *http.Client) Option {
	return func(s *Service) {
		s.sampleURL = url
		if client != nil {
			s.httpClient = client
		}
	}
}

// New creates an analysis service.
func New(classifier Classifier, selector TrackSelector, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		selector:   selector,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		newID:      newReceiptID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze classifies the photo, selects a track and builds the receipt.
// Track and palette problems degrade the receipt; only an undecodable image
// or a classifier failure is returned as an error.
func (s *Service) Analyze(ctx context.Context, req Request) (receipt.Receipt, error) {
	img, err := imaging.Decode(req.Image, imaging.DefaultMaxSide)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	jpegData, err := imaging.EncodeJPEG(img)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	prediction, err := s.classifier.Classify(ctx, jpegData)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if len(prediction) == 0 {
		return receipt.Receipt{}, fmt.Errorf("%w: empty prediction", ErrClassification)
	}

	top := prediction.Top()
	language := tracks.NormalizeLanguage(req.Language)

	var (
		track       tracks.Track
		photoColors []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		track = s.selector.Select(gctx, top.Label, language)
		return nil
	})
	g.Go(func() error {
		colors, err := imaging.DominantColors(img, PhotoPaletteSize)
		if err != nil {
			logger.Warn("analysis: photo palette failed", logger.Fields{"error": err.Error()})
			return nil
		}
		photoColors = colors
		return nil
	})
	_ = g.Wait() // Neither goroutine returns an error.

	r := receipt.Build(receipt.Input{
		Prediction:  prediction,
		Track:       track,
		Language:    language,
		Date:        s.now(),
		ID:          s.newID(),
		PhotoColors: photoColors,
	})

	logger.Info("analysis: receipt built", logger.Fields{
		"receipt_id": r.ID,
		"label":      top.Label.String(),
		"confidence": top.Confidence,
		"language":   language,
	})

	return r, nil
}

// AnalyzeSample downloads the configured sample photo and analyses it.
func (s *Service) AnalyzeSample(ctx context.Context, language string) (receipt.Receipt, error) {
	if s.sampleURL == "" {
		return receipt.Receipt{}, ErrNoSample
	}

	data, err := imaging.Fetch(ctx, s.httpClient, s.sampleURL, imaging.DefaultMaxBytes)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("fetching sample image: %w", err)
	}

	return s.Analyze(ctx, Request{Image: data, Language: language})
}

// newReceiptID returns a short receipt number derived from a random UUID.
func newReceiptID() string {
	return uuid.NewString()[:8]
}
