package imaging

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/colorthief/internal/palette"
)

// Canvas is a palette.PixelSource for images that are already decoded.
//
// The image is drawn onto a premultiplied RGBA canvas at its natural size and
// read back as non-premultiplied RGBA, the same round trip a browser makes
// with drawImage and getImageData. Translucent pixels therefore lose a little
// colour precision, exactly as they would there.
//
// The zero value is ready to use and safe for concurrent use.
type Canvas struct{}

// Decode implements palette.PixelSource. Only d.Image, d.Region and
// d.MaxDimension are consulted. A nil image is an acquisition failure.
func (Canvas) Decode(ctx context.Context, d palette.Descriptor) (*palette.PixelGrid, error) {
	if d.Image == nil {
		return nil, fmt.Errorf("%w: no image to draw", palette.ErrAcquisition)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := prepare(d.Image, d)
	if err != nil {
		return nil, err
	}

	return readCanvas(clone.AsRGBA(img)), nil
}

// readCanvas un-premultiplies a canvas into a flat RGBA grid.
func readCanvas(canvas *image.RGBA) *palette.PixelGrid {
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 4*w*h)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := canvas.Pix[canvas.PixOffset(b.Min.X, y):]
		for x := 0; x < w; x++ {
			r, g, bl, a := row[4*x], row[4*x+1], row[4*x+2], row[4*x+3]
			switch a {
			case 0:
				// Fully transparent pixels read back as transparent black.
			case 0xff:
				pix[i], pix[i+1], pix[i+2] = r, g, bl
			default:
				pix[i] = unpremultiply(r, a)
				pix[i+1] = unpremultiply(g, a)
				pix[i+2] = unpremultiply(bl, a)
			}
			pix[i+3] = a
			i += 4
		}
	}

	return &palette.PixelGrid{Width: w, Height: h, Channels: 4, Pix: pix}
}

func unpremultiply(c, a uint8) uint8 {
	v := (uint32(c)*0xff + uint32(a)/2) / uint32(a)
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}
