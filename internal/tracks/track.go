// Package tracks selects a Spotify track for a detected mood.
package tracks

import (
	"math/rand/v2"
	"strings"
)

// ProviderHomeURL is the link used by sentinel tracks.
const ProviderHomeURL = "https://spotify.com"

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "english"

// FallbackNote is attached to tracks found by the language-only search.
const FallbackNote = "🎵 Couldn't find a perfect match for your mood. Here's a cool track in your preferred language!"

// Track is a single track suggestion.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Link   string `json:"link"`
	Note   string `json:"note,omitempty"`
}

// Sentinel tracks returned when no genuine result is available.
var (
	NoTokenTrack = Track{
		Title:  "No token",
		Artist: "Check credentials",
		Link:   ProviderHomeURL,
	}

	NoMatchTrack = Track{
		Title:  "No match found",
		Artist: "Try different mood/language",
		Link:   ProviderHomeURL,
	}
)

// Denylist holds title substrings that make a track unsuitable regardless of mood.
var Denylist = []string{"birthday", "happy birthday", "kids", "nursery"}

// SuggestedLanguages lists the languages offered in the UI. Other values are allowed.
var SuggestedLanguages = []string{
	"english", "hindi", "tamil", "telugu", "kannada", "malayalam",
	"bengali", "spanish", "french", "german", "japanese", "korean",
	"arabic", "portuguese", "russian",
}

// NormalizeLanguage trims and lower-cases a language, defaulting to english.
func NormalizeLanguage(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if l == "" {
		return DefaultLanguage
	}
	return l
}

// IsDenied reports whether title contains a denylisted substring (case-insensitive).
func IsDenied(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range Denylist {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// complete reports whether the track has every field needed for display.
func (t Track) complete() bool {
	return t.Title != "" && t.Artist != "" && t.Link != ""
}

// Picker chooses an index in [0, n). n is always positive.
type Picker interface {
	Intn(n int) int
}

type randomPicker struct{}

func (randomPicker) Intn(n int) int {
	return rand.IntN(n)
}
