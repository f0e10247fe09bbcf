package imaging

import (
	"fmt"
	"image"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// paletteSampleSide is the grid size pixels are sampled on before clustering.
const paletteSampleSide = 48

// DominantColors clusters the pixels of img with k-means and returns up to k
// hex colours, largest cluster first.
func DominantColors(img image.Image, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	obs := samplePixels(img)
	if len(obs) == 0 {
		return nil, nil
	}
	if len(obs) < k {
		k = len(obs)
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("clustering pixels: %w", err)
	}

	// Drop empty clusters and order by size, ties broken by colour for stable output.
	type swatch struct {
		hex  string
		size int
	}
	swatches := make([]swatch, 0, len(result))
	for _, c := range result {
		if len(c.Observations) == 0 {
			continue
		}
		swatches = append(swatches, swatch{hex: hexColor(c.Center), size: len(c.Observations)})
	}
	slices.SortFunc(swatches, func(a, b swatch) int {
		if a.size != b.size {
			return b.size - a.size
		}
		if a.hex < b.hex {
			return -1
		}
		if a.hex > b.hex {
			return 1
		}
		return 0
	})

	colors := make([]string, 0, len(swatches))
	for _, s := range swatches {
		if slices.Contains(colors, s.hex) {
			continue
		}
		colors = append(colors, s.hex)
	}
	return colors, nil
}

// samplePixels reads a regular grid of pixels as RGB coordinates in [0, 1].
func samplePixels(img image.Image) clusters.Observations {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	stepX := max(1, b.Dx()/paletteSampleSide)
	stepY := max(1, b.Dy()/paletteSampleSide)

	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			r, g, bl, _ := img.At(x, y).RGBA()
			obs = append(obs, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(bl) / 0xffff,
			})
		}
	}
	return obs
}

// hexColor converts a cluster centre in [0, 1] RGB space to "#RRGGBB".
func hexColor(c clusters.Coordinates) string {
	channel := func(i int) uint8 {
		if i >= len(c) {
			return 0
		}
		v := c[i]
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 0xff
		}
		return uint8(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", channel(0), channel(1), channel(2))
}
