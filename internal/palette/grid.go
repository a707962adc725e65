package palette

import (
	"context"
	"fmt"
	"image"
)

// PixelGrid is a read-only view over decoded image data: Width*Height pixels
// stored row-major in Pix, Channels bytes per pixel (4 for RGBA, 3 for RGB).
// RGBA data is expected to be non-premultiplied.
type PixelGrid struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewPixelGrid checks that pix can hold width*height pixels of the given
// channel count and wraps it without copying.
func NewPixelGrid(width, height, channels int, pix []byte) (*PixelGrid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("invalid channel count %d (want 3 or 4)", channels)
	}
	if need := width * height * channels; len(pix) < need {
		return nil, fmt.Errorf("pixel buffer too short: got %d bytes, need %d", len(pix), need)
	}
	return &PixelGrid{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// GridFromNRGBA wraps the pixels of img. Rows are copied only when img is a
// sub-image whose stride exceeds its width.
func GridFromNRGBA(img *image.NRGBA) *PixelGrid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == 4*w {
		start := img.PixOffset(b.Min.X, b.Min.Y)
		return &PixelGrid{Width: w, Height: h, Channels: 4, Pix: img.Pix[start : start+4*w*h]}
	}

	pix := make([]byte, 0, 4*w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[off:off+4*w]...)
	}
	return &PixelGrid{Width: w, Height: h, Channels: 4, Pix: pix}
}

// PixelCount returns Width*Height.
func (g *PixelGrid) PixelCount() int {
	return g.Width * g.Height
}

// channels returns the per-pixel stride, treating an unset value as RGBA.
func (g *PixelGrid) channels() int {
	if g.Channels == 3 {
		return 3
	}
	return 4
}

// Descriptor names an image for a PixelSource to acquire. Exactly one of
// Image, Buffer or Location is normally set; sources pick the first one
// present in that order.
type Descriptor struct {
	// Location is a file path, an http(s) URL or a data URL.
	Location string

	// Buffer holds encoded image bytes; MimeType names their format
	// (e.g. "image/png").
	Buffer   []byte
	MimeType string

	// Image is an already decoded image, drawn onto a canvas before reading.
	Image image.Image

	// Region restricts extraction to a rectangle of the decoded image.
	// Nil means the whole image.
	Region *image.Rectangle

	// MaxDimension, when positive, downsizes the decoded image so neither side
	// exceeds it before sampling.
	MaxDimension int
}

// String describes the descriptor for logs and error messages.
func (d Descriptor) String() string {
	switch {
	case d.Image != nil:
		b := d.Image.Bounds()
		return fmt.Sprintf("image(%dx%d)", b.Dx(), b.Dy())
	case d.Buffer != nil:
		return fmt.Sprintf("buffer(%s, %d bytes)", d.MimeType, len(d.Buffer))
	case len(d.Location) > 64:
		return d.Location[:61] + "..."
	default:
		return d.Location
	}
}

// PixelSource acquires and decodes an image into a PixelGrid.
//
// Implementations wrap failures to obtain bytes with ErrAcquisition and
// failures to decode obtained bytes with ErrDecode.
type PixelSource interface {
	Decode(ctx context.Context, d Descriptor) (*PixelGrid, error)
}
