// Package imaging decodes uploaded photos and extracts their dominant colours.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSide bounds the longest side of decoded images.
const DefaultMaxSide = 512

// ErrUnsupportedImage is returned when the data is not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// Decode decodes image data, applies its EXIF orientation, and scales it so
// neither side exceeds maxSide (DefaultMaxSide when maxSide <= 0).
// The result is always an opaque *image.RGBA.
func Decode(data []byte, maxSide int) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedImage
	}
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	oriented := Orient(src, ReadOrientation(data, format))
	return toRGB(oriented, maxSide), nil
}

// toRGB flattens transparency onto white and scales down to fit maxSide.
func toRGB(src image.Image, maxSide int) *image.RGBA {
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxSide)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}
	return dst
}

// fit scales (w, h) down proportionally so the longest side is at most maxSide.
func fit(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}

// EncodeJPEG encodes img as a JPEG at quality 90.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
