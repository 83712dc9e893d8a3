// Package imageutil prepares uploaded pictures for the CDN: phones deliver
// rotation as EXIF metadata only, and the CDN serves pixels exactly as stored.
package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"math"

	_ "image/png" // registered for image.Decode

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registered for image.Decode
)

const defaultQuality = 85

// NormalizeJPEG decodes a jpeg/png/webp image, bakes the EXIF orientation
// into the pixels, scales down to maxWidth when wider (aspect kept), and
// re-encodes as JPEG with the given quality (1..100).
func NormalizeJPEG(input []byte, maxWidth, quality int) ([]byte, error) {
	if len(input) == 0 {
		return nil, errors.New("empty image")
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, errors.New("unsupported image format (need jpeg/png/webp)")
	}

	img = applyOrientation(img, orientation(input))
	if maxWidth > 0 {
		img = scaleToWidth(img, maxWidth)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// orientation returns the EXIF orientation tag, 1 (no transform) when the
// image carries none.
func orientation(input []byte) int {
	meta, err := exif.Decode(bytes.NewReader(input))
	if err != nil {
		return 1
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// applyOrientation undoes the transform the EXIF tag describes. Values 5-8
// swap width and height.
func applyOrientation(src image.Image, o int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	switch o {
	case 2: // mirrored
		return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
	case 3: // upside down
		return remap(src, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4: // flipped
		return remap(src, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
	case 5: // transposed
		return remap(src, h, w, func(x, y int) (int, int) { return y, x })
	case 6: // rotated 90 clockwise
		return remap(src, h, w, func(x, y int) (int, int) { return y, h - 1 - x })
	case 7: // transversed
		return remap(src, h, w, func(x, y int) (int, int) { return w - 1 - y, h - 1 - x })
	case 8: // rotated 90 counter-clockwise
		return remap(src, h, w, func(x, y int) (int, int) { return w - 1 - y, x })
	default:
		return src
	}
}

// remap writes a w by h copy of src where every destination pixel pulls from
// the source coordinate at returns.
func remap(src image.Image, w, h int, at func(x, y int) (int, int)) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := at(x, y)
			dst.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}

func scaleToWidth(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW || w <= 0 || h <= 0 {
		return src
	}

	newH := int(math.Round(float64(h) * float64(maxW) / float64(w)))
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
