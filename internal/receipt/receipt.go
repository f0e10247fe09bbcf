// Package receipt builds the display payload for one mood analysis.
package receipt

import (
	"time"

	"github.com/justestif/feelora/internal/emotion"
	"github.com/justestif/feelora/internal/mood"
	"github.com/justestif/feelora/internal/tracks"
)

// DateLayout is the layout of the receipt date ("14 Oct 2026").
const DateLayout = "02 Jan 2006"

// Input is everything the receipt is derived from.
// The date and ID are supplied by the caller so Build stays deterministic.
type Input struct {
	Prediction  emotion.Prediction
	Track       tracks.Track
	Language    string
	Date        time.Time
	ID          string
	PhotoColors []string
}

// Entry is one ranked emotion as displayed.
type Entry struct {
	Label   emotion.Label `json:"label"`
	Title   string        `json:"title"`
	Emoji   string        `json:"emoji"`
	Percent string        `json:"percent"`
	// Width is the bar width in percent, clamped to [0, 100].
	Width float64 `json:"width"`
}

// Receipt is the rendered result of an analysis.
type Receipt struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Language    string       `json:"language"`
	Top         Entry        `json:"top"`
	Others      []Entry      `json:"others"`
	Track       tracks.Track `json:"track"`
	Scent       mood.Scent   `json:"scent"`
	Palette     mood.Palette `json:"palette"`
	Affirmation string       `json:"affirmation"`
	PhotoColors []string     `json:"photo_colors,omitempty"`
}

// Build derives a Receipt from in. It performs no I/O and the same input
// always yields an equal Receipt.
func Build(in Input) Receipt {
	top := in.Prediction.Top()
	attrs := mood.Lookup(top.Label)

	others := make([]Entry, 0, len(in.Prediction.Rest()))
	for _, s := range in.Prediction.Rest() {
		others = append(others, entry(s))
	}

	language := tracks.NormalizeLanguage(in.Language)

	return Receipt{
		ID:          in.ID,
		Date:        in.Date.Format(DateLayout),
		Language:    language,
		Top:         entry(top),
		Others:      others,
		Track:       in.Track,
		Scent:       attrs.Scent,
		Palette:     attrs.Palette,
		Affirmation: attrs.Affirmation,
		PhotoColors: in.PhotoColors,
	}
}

func entry(s emotion.Score) Entry {
	return Entry{
		Label:   s.Label,
		Title:   s.Label.Title(),
		Emoji:   mood.Emoji(s.Label),
		Percent: s.Percent(),
		Width:   min(max(emotion.PercentValue(s.Confidence), 0), 100),
	}
}
