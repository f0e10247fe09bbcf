// Package mood maps emotion labels to their scent, palette, and affirmation.
package mood

import "github.com/justestif/feelora/internal/emotion"

// Scent is a suggested virtual scent for a mood.
type Scent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Palette is an ordered set of three hex colours.
type Palette [3]string

// Attributes holds the static side-data shown for a mood.
type Attributes struct {
	Scent       Scent   `json:"scent"`
	Palette     Palette `json:"palette"`
	Affirmation string  `json:"affirmation"`
	Emoji       string  `json:"emoji"`
}

// Default is returned for labels without an entry.
var Default = Attributes{
	Scent:       Scent{Name: "Classic Air", Description: "A neutral blend."},
	Palette:     Palette{"#DDD", "#AAA", "#777"},
	Affirmation: "You're doing great. 💛",
}

var table = map[emotion.Label]Attributes{
	emotion.Happy: {
		Scent:       Scent{"Citrus Burst", "Energizing and joyful with a zesty twist"},
		Palette:     Palette{"#FFF176", "#FFD54F", "#FFB300"},
		Affirmation: "Keep spreading that sunshine! ☀️",
		Emoji:       "😊",
	},
	emotion.Sad: {
		Scent:       Scent{"Rainy Lavender", "Calming floral aroma with notes of melancholy"},
		Palette:     Palette{"#90A4AE", "#78909C", "#546E7A"},
		Affirmation: "You're strong, even when it feels heavy. 💙",
		Emoji:       "😢",
	},
	emotion.Angry: {
		Scent:       Scent{"Smoked Oud", "Deep woody tones to help you unwind"},
		Palette:     Palette{"#EF5350", "#E53935", "#B71C1C"},
		Affirmation: "Pause. Breathe. You’ve got control. 🔥",
		Emoji:       "😠",
	},
	emotion.Calm: {
		Scent:       Scent{"Mint Breeze", "Refreshing and soothing like a gentle stream"},
		Palette:     Palette{"#81D4FA", "#4FC3F7", "#29B6F6"},
		Affirmation: "Stay centered, you radiate peace. 🌿",
		Emoji:       "😌",
	},
	emotion.Romantic: {
		Scent:       Scent{"Rose Ember", "Sweet romantic floral with warm undertones"},
		Palette:     Palette{"#F48FB1", "#EC407A", "#AD1457"},
		Affirmation: "Love is in the air — and in your smile. 💖",
		Emoji:       "😍",
	},
	emotion.Fearful: {
		Scent:       Scent{"Pine Noir", "Grounding scent to ease tension"},
		Palette:     Palette{"#A1887F", "#8D6E63", "#6D4C41"},
		Affirmation: "Even fear is a sign of care. You've got this. 🌌",
		Emoji:       "😨",
	},
	emotion.Disgust: {
		Scent:       Scent{"Ocean Escape", "Clean and purifying marine blend"},
		Palette:     Palette{"#A5D6A7", "#81C784", "#66BB6A"},
		Affirmation: "Let go of what doesn't serve you. 🌊",
		Emoji:       "🤢",
	},
	emotion.Surprised: {
		Scent:       Scent{"Sparkle Spice", "Bright notes of cinnamon and surprise"},
		Palette:     Palette{"#FFD54F", "#FFCA28", "#FFA000"},
		Affirmation: "Embrace the unexpected — magic lives there! ✨",
		Emoji:       "😲",
	},
	emotion.Neutral: {
		Scent:       Scent{"Soft Linen", "Simple, clean and balanced"},
		Palette:     Palette{"#E0E0E0", "#BDBDBD", "#9E9E9E"},
		Affirmation: "Balance is beautiful. 🧘‍♀️",
		Emoji:       "😐",
	},
}

// Lookup returns the attributes for label, or Default if the label is unknown.
func Lookup(label emotion.Label) Attributes {
	if attrs, ok := table[label]; ok {
		return attrs
	}
	return Default
}

// Emoji returns the emoji for label, or "" if it has none.
func Emoji(label emotion.Label) string {
	return table[label].Emoji
}
