// Package emotion defines the facial-expression labels and ranked predictions.
package emotion

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TopK is the number of scores kept in a Prediction.
const TopK = 5

// Label is one discrete emotion category produced by the classifier.
type Label string

// Known labels.
const (
	Happy     Label = "happy"
	Sad       Label = "sad"
	Angry     Label = "angry"
	Surprised Label = "surprised"
	Neutral   Label = "neutral"
	Disgust   Label = "disgust"
	Fearful   Label = "fearful"
	Calm      Label = "calm"
	Romantic  Label = "romantic"
)

var known = []Label{Happy, Sad, Angry, Surprised, Neutral, Disgust, Fearful, Calm, Romantic}

// aliases maps label spellings used by common FER models to our labels.
var aliases = map[string]Label{
	"anger":     Angry,
	"fear":      Fearful,
	"surprise":  Surprised,
	"happiness": Happy,
	"sadness":   Sad,
	"disgusted": Disgust,
	"fearfull":  Fearful,
}

// Labels returns every known label in a fixed order.
func Labels() []Label {
	return slices.Clone(known)
}

// ParseLabel normalizes a raw classifier label.
// The returned bool reports whether the label is one of the known labels;
// unknown labels are returned lower-cased rather than discarded.
func ParseLabel(raw string) (Label, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := aliases[s]; ok {
		return alias, true
	}
	l := Label(s)
	return l, l.Valid()
}

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	return slices.Contains(known, l)
}

// String returns the label as a string.
func (l Label) String() string {
	return string(l)
}

// Title returns the label with its first letter upper-cased ("Happy").
func (l Label) Title() string {
	if l == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(string(l))
	return string(unicode.ToUpper(r)) + string(l)[size:]
}

// Score is a single (label, confidence) pair. Confidence is in [0, 1].
type Score struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Percent returns the confidence formatted as a percentage.
func (s Score) Percent() string {
	return FormatPercent(s.Confidence)
}

// Prediction is a ranked list of scores, highest confidence first.
// Scores come from a softmax over the full label space and are then truncated,
// so they need not sum to 1.
type Prediction []Score

// Rank sorts scores by descending confidence and keeps the first k.
// Ties keep their input order. The input slice is not modified.
func Rank(scores []Score, k int) Prediction {
	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b Score) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return Prediction(ranked)
}

// Top returns the highest-ranked score, or the zero Score if p is empty.
func (p Prediction) Top() Score {
	if len(p) == 0 {
		return Score{}
	}
	return p[0]
}

// Rest returns every score after the top one.
func (p Prediction) Rest() []Score {
	if len(p) < 2 {
		return nil
	}
	return p[1:]
}

// FormatPercent renders a confidence as a percentage rounded to two decimals,
// always with at least one decimal place: 0.92 -> "92.0%", 0.0123 -> "1.23%".
func FormatPercent(confidence float64) string {
	return formatNumber(PercentValue(confidence)) + "%"
}

// PercentValue converts a confidence to a percentage rounded to two decimals.
func PercentValue(confidence float64) float64 {
	return math.Round(confidence*10000) / 100
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
