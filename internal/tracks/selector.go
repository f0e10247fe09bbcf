package tracks

import (
	"context"
	"fmt"

	"github.com/justestif/feelora/internal/emotion"
	"github.com/justestif/feelora/internal/logger"
)

// PlaylistSearchLimit is the maximum number of playlists requested per search.
const PlaylistSearchLimit = 10

// Catalog is the read-only subset of the search provider used by the selector.
type Catalog interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]string, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)
}

// Connector acquires a freshly authenticated Catalog.
// It is called once per Select; tokens are never reused across calls.
type Connector interface {
	Connect(ctx context.Context) (Catalog, error)
}

// Outcome classifies the result of one search stage.
type Outcome int

const (
	// Found means a usable track was selected.
	Found Outcome = iota
	// Empty means the provider answered but nothing usable came back.
	Empty
	// Failed means a provider call returned an error.
	Failed
	// Malformed means candidates came back but all lacked required fields.
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StageResult is what a single search stage produced.
type StageResult struct {
	Outcome  Outcome
	Track    Track
	Err      error
	Filtered int // candidates dropped by the denylist
	Invalid  int // candidates dropped for missing fields
}

// Selector picks a track using a targeted search with a language-only fallback.
type Selector struct {
	connector Connector
	picker    Picker
}

// Option configures a Selector.
type Option func(*Selector)

// WithPicker sets the randomness source used for playlist and track choice.
func WithPicker(p Picker) Option {
	return func(s *Selector) {
		if p != nil {
			s.picker = p
		}
	}
}

// NewSelector creates a Selector.
func NewSelector(connector Connector, opts ...Option) *Selector {
	s := &Selector{
		connector: connector,
		picker:    randomPicker{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns exactly one track for the emotion and language. It never fails:
// credential problems yield NoTokenTrack and an exhausted search yields NoMatchTrack.
func (s *Selector) Select(ctx context.Context, label emotion.Label, language string) Track {
	language = NormalizeLanguage(language)

	catalog, err := s.connector.Connect(ctx)
	if err != nil {
		logger.Warn("track search: token unavailable", logger.Fields{"error": err.Error()})
		return NoTokenTrack
	}

	stages := []struct {
		query string
		note  string
	}{
		{query: label.String() + " " + language},
		{query: language, note: FallbackNote},
	}

	for i, stage := range stages {
		res := s.RunStage(ctx, catalog, stage.query)
		logStage(i+1, stage.query, res)
		if res.Outcome == Found {
			res.Track.Note = stage.note
			return res.Track
		}
	}

	return NoMatchTrack
}

// RunStage performs one search, playlist pick and track pick for query.
func (s *Selector) RunStage(ctx context.Context, catalog Catalog, query string) StageResult {
	playlists, err := catalog.SearchPlaylists(ctx, query, PlaylistSearchLimit)
	if err != nil {
		return StageResult{Outcome: Failed, Err: fmt.Errorf("searching playlists: %w", err)}
	}
	if len(playlists) == 0 {
		return StageResult{Outcome: Empty}
	}

	playlistID := playlists[s.picker.Intn(len(playlists))]

	candidates, err := catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return StageResult{Outcome: Failed, Err: fmt.Errorf("fetching playlist %s: %w", playlistID, err)}
	}

	res := StageResult{}
	valid := make([]Track, 0, len(candidates))
	for _, c := range candidates {
		switch {
		case !c.complete():
			res.Invalid++
		case IsDenied(c.Title):
			res.Filtered++
		default:
			valid = append(valid, c)
		}
	}

	if len(valid) == 0 {
		res.Outcome = Empty
		if res.Invalid > 0 && res.Filtered == 0 {
			res.Outcome = Malformed
		}
		return res
	}

	res.Outcome = Found
	res.Track = valid[s.picker.Intn(len(valid))]
	res.Track.Note = ""
	return res
}

func logStage(stage int, query string, res StageResult) {
	fields := logger.Fields{
		"stage":    stage,
		"query":    query,
		"outcome":  res.Outcome.String(),
		"filtered": res.Filtered,
		"invalid":  res.Invalid,
	}
	switch res.Outcome {
	case Failed:
		fields["error"] = res.Err.Error()
		logger.Warn("track search: stage failed", fields)
	case Malformed:
		logger.Warn("track search: malformed provider response", fields)
	default:
		logger.Debug("track search: stage finished", fields)
	}
}
