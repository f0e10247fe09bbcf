package mood

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justestif/feelora/internal/emotion"
)

func TestLookup_AllLabels(t *testing.T) {
	for _, label := range emotion.Labels() {
		t.Run(label.String(), func(t *testing.T) {
			got := Lookup(label)

			assert.NotEmpty(t, got.Scent.Name)
			assert.NotEmpty(t, got.Scent.Description)
			assert.NotEmpty(t, got.Affirmation)
			assert.NotEmpty(t, got.Emoji)
			for i, c := range got.Palette {
				assert.Truef(t, strings.HasPrefix(c, "#"), "palette[%d] = %q, want hex colour", i, c)
			}
			assert.NotEqual(t, Default, got)
		})
	}
}

func TestLookup_Happy(t *testing.T) {
	got := Lookup(emotion.Happy)

	assert.Equal(t, "Citrus Burst", got.Scent.Name)
	assert.Equal(t, Palette{"#FFF176", "#FFD54F", "#FFB300"}, got.Palette)
	assert.Equal(t, "😊", got.Emoji)
}

func TestLookup_UnknownLabel(t *testing.T) {
	got := Lookup(emotion.Label("contempt"))

	assert.Equal(t, Default, got)
	assert.Equal(t, "Classic Air", got.Scent.Name)
	assert.Equal(t, Palette{"#DDD", "#AAA", "#777"}, got.Palette)
	assert.Equal(t, "You're doing great. 💛", got.Affirmation)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	got := Lookup(emotion.Sad)
	got.Palette[0] = "#000000"
	got.Scent.Name = "changed"

	again := Lookup(emotion.Sad)
	assert.Equal(t, "#90A4AE", again.Palette[0])
	assert.Equal(t, "Rainy Lavender", again.Scent.Name)
}

func TestEmoji(t *testing.T) {
	assert.Equal(t, "😲", Emoji(emotion.Surprised))
	assert.Equal(t, "", Emoji(emotion.Label("unknown")))
}
