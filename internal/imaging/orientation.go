package imaging

import (
	"bytes"
	"image"

	"github.com/bep/imagemeta"
)

// EXIF orientation values that need a transform. 1 (or unknown) is upright.
const (
	orientFlipH     = 2
	orientRotate180 = 3
	orientFlipV     = 4
	orientTranspose = 5
	orientRotate90  = 6 // rotate 90° clockwise to display
	orientTransvers = 7
	orientRotate270 = 8 // rotate 90° counter-clockwise to display
)

// metaFormats maps image.Decode format names to imagemeta formats.
var metaFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"webp": imagemeta.WebP,
}

// ReadOrientation returns the EXIF Orientation tag of data, or 1 when absent.
// format is the name reported by image.Decode. Never returns an error:
// unreadable metadata means upright.
func ReadOrientation(data []byte, format string) int {
	imageFormat, ok := metaFormats[format]
	if !ok {
		return 1
	}
	orientation := 1

	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: imageFormat,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if v, ok := tagInt(ti.Value); ok && v >= 1 && v <= 8 {
				orientation = v
			}
			return nil
		},
	})
	if err != nil {
		return 1
	}
	return orientation
}

func tagInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	}
	return 0, false
}

// Orient returns img transformed so that it displays upright for the given
// EXIF orientation.
func Orient(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	swap := orientation >= orientTranspose
	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case orientFlipH:
				dx, dy = w-1-x, y
			case orientRotate180:
				dx, dy = w-1-x, h-1-y
			case orientFlipV:
				dx, dy = x, h-1-y
			case orientTranspose:
				dx, dy = y, x
			case orientRotate90:
				dx, dy = h-1-y, x
			case orientTransvers:
				dx, dy = h-1-y, w-1-x
			case orientRotate270:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
