package imaging

import (
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/colorthief/internal/palette"
)

// QuadrantNames lists the named regions understood by QuadrantRect.
var QuadrantNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// QuadrantRect returns the rectangle of a named region of an image with the
// given bounds. "center" is the middle 50% in each direction.
func QuadrantRect(bounds image.Rectangle, region string) (image.Rectangle, error) {
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("%w: unknown region: %s", palette.ErrInvalidOption, region)
	}

	return image.Rect(x1, y1, x2, y2).Add(bounds.Min), nil
}

// ValidQuadrant reports whether name is one of QuadrantNames.
func ValidQuadrant(name string) bool {
	return slices.Contains(QuadrantNames, name)
}

// QuadrantSource is a palette.PixelSource that samples only a named region
// of each image. The region is resolved against the image after EXIF
// orientation, replacing any Region on the descriptor.
type QuadrantSource struct {
	Loader *Loader
	Name   string
}

// Decode implements palette.PixelSource.
func (q QuadrantSource) Decode(ctx context.Context, d palette.Descriptor) (*palette.PixelGrid, error) {
	if !ValidQuadrant(q.Name) {
		return nil, fmt.Errorf("%w: unknown region: %s", palette.ErrInvalidOption, q.Name)
	}

	img, err := q.Loader.Open(ctx, d)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	r, err := QuadrantRect(bounds, q.Name)
	if err != nil {
		return nil, err
	}
	r = r.Sub(bounds.Min)
	d.Region = &r

	if d.Image != nil {
		return Canvas{}.Decode(ctx, d)
	}
	return q.Loader.grid(img, d)
}

// prepare applies a descriptor's region and size limit to img. The region is
// relative to the image origin, (0,0) being the top-left pixel.
func prepare(img image.Image, d palette.Descriptor) (image.Image, error) {
	if d.Region != nil {
		bounds := img.Bounds()
		r := d.Region.Add(bounds.Min)

		if r.Min.X < bounds.Min.X || r.Min.Y < bounds.Min.Y || r.Max.X > bounds.Max.X || r.Max.Y > bounds.Max.Y {
			return nil, fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				palette.ErrInvalidOption, d.Region.Min.X, d.Region.Min.Y, d.Region.Max.X, d.Region.Max.Y,
				0, 0, bounds.Dx(), bounds.Dy())
		}
		if r.Empty() {
			return nil, fmt.Errorf("%w: invalid region: x1 must be < x2, y1 must be < y2", palette.ErrInvalidOption)
		}

		img = imaging.Crop(img, r)
	}

	if d.MaxDimension > 0 {
		// Fit never enlarges.
		img = imaging.Fit(img, d.MaxDimension, d.MaxDimension, imaging.Box)
	}

	return img, nil
}
