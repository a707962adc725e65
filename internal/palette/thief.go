package palette

import (
	"context"
	"errors"
	"fmt"
)

// Thief extracts palettes and dominant colours. It composes a PixelSource
// (used only by the fetching operations) with a Quantizer.
type Thief struct {
	source    PixelSource
	quantizer Quantizer
}

// New creates a Thief. A nil quantizer selects MedianCut. The source may be
// nil when only the grid-based operations are used.
func New(source PixelSource, quantizer Quantizer) *Thief {
	if quantizer == nil {
		quantizer = MedianCut{}
	}
	return &Thief{source: source, quantizer: quantizer}
}

// GetPalette extracts up to colorCount colours from grid, largest cluster
// first.
//
// Parameters:
//   - grid: Decoded pixels. Must not be nil.
//   - colorCount: Requested palette size, 2-20 (larger values are clamped).
//   - opts: Quality is the sampling stride; ColorType is validated but the
//     result is always raw colours. Use GetPaletteHex for strings.
//
// Returns an empty palette when no pixel survives sampling (fully transparent
// or fully near-white images). The only error is ErrInvalidOption.
func (t *Thief) GetPalette(grid *PixelGrid, colorCount int, opts Options) (Palette, error) {
	colorCount, opts, err := Validate(colorCount, opts)
	if err != nil {
		return nil, err
	}
	return t.extract(grid, colorCount, opts.Quality), nil
}

// GetPaletteHex is GetPalette with every colour formatted as "#rrggbb".
func (t *Thief) GetPaletteHex(grid *PixelGrid, colorCount int, opts Options) ([]string, error) {
	pal, err := t.GetPalette(grid, colorCount, opts)
	if err != nil {
		return nil, err
	}
	return pal.Hex(), nil
}

// GetColor returns the dominant colour of grid: the first entry of a
// DominantColorCount-colour palette. The boolean is false when the palette is
// empty.
func (t *Thief) GetColor(grid *PixelGrid, opts Options) (Color, bool, error) {
	pal, err := t.GetPalette(grid, DominantColorCount, opts)
	if err != nil {
		return Color{}, false, err
	}
	if len(pal) == 0 {
		return Color{}, false, nil
	}
	return pal[0], true, nil
}

// GetColorHex is GetColor formatted as "#rrggbb". The string is empty when
// the boolean is false.
func (t *Thief) GetColorHex(grid *PixelGrid, opts Options) (string, bool, error) {
	c, ok, err := t.GetColor(grid, opts)
	if err != nil || !ok {
		return "", false, err
	}
	return c.Hex(), true, nil
}

// extract runs sample then quantize on validated input.
func (t *Thief) extract(grid *PixelGrid, colorCount, quality int) Palette {
	if grid == nil {
		return Palette{}
	}
	sample := SamplePixels(grid, grid.PixelCount(), quality)
	return QuantizeSample(t.quantizer, sample, colorCount)
}

// Result is the outcome of a fetching operation.
//
// OK is false when the image could not be acquired; Reason then holds the
// cause and Palette is empty. OK is true with an empty Palette when the image
// was read but held no usable pixels.
type Result struct {
	OK      bool
	Palette Palette

	// Dominant is set by FetchColor to the first palette entry, or nil when
	// the palette is empty. FetchPalette leaves it nil.
	Dominant *Color

	Reason error
}

// PaletteHex returns the palette formatted as "#rrggbb" strings.
func (r Result) PaletteHex() []string {
	return r.Palette.Hex()
}

// DominantHex returns the dominant colour as "#rrggbb", or "" and false when
// there is none.
func (r Result) DominantHex() (string, bool) {
	if r.Dominant == nil {
		return "", false
	}
	return r.Dominant.Hex(), true
}

// failed builds the empty-result shape for an acquisition failure.
func failed(reason error) Result {
	return Result{OK: false, Palette: Palette{}, Reason: reason}
}

// FetchPalette acquires d through the Thief's PixelSource and extracts up to
// colorCount colours.
//
// Options are validated before anything is fetched. An acquisition failure
// (ErrAcquisition) is reported in the Result with a nil error. Decode
// failures (ErrDecode) and context cancellation are returned as errors.
func (t *Thief) FetchPalette(ctx context.Context, d Descriptor, colorCount int, opts Options) (Result, error) {
	colorCount, opts, err := Validate(colorCount, opts)
	if err != nil {
		return Result{}, err
	}

	grid, res, err := t.acquire(ctx, d)
	if err != nil || grid == nil {
		return res, err
	}

	return Result{OK: true, Palette: t.extract(grid, colorCount, opts.Quality)}, nil
}

// FetchColor acquires d and returns its dominant colour along with the
// DominantColorCount-colour palette it was taken from. Failure handling
// matches FetchPalette.
func (t *Thief) FetchColor(ctx context.Context, d Descriptor, opts Options) (Result, error) {
	res, err := t.FetchPalette(ctx, d, DominantColorCount, opts)
	if err != nil || !res.OK {
		return res, err
	}
	if len(res.Palette) > 0 {
		c := res.Palette[0]
		res.Dominant = &c
	}
	return res, nil
}

// acquire decodes d. A nil grid with a nil error means the returned Result
// already describes a soft failure.
func (t *Thief) acquire(ctx context.Context, d Descriptor) (*PixelGrid, Result, error) {
	if t.source == nil {
		return nil, Result{}, ErrNoSource
	}

	grid, err := t.source.Decode(ctx, d)
	switch {
	case err == nil && grid == nil:
		return nil, failed(fmt.Errorf("%w: %s: no image", ErrAcquisition, d)), nil
	case err == nil:
		return grid, Result{}, nil
	case ctx.Err() != nil:
		return nil, Result{}, ctx.Err()
	case errors.Is(err, ErrAcquisition):
		return nil, failed(err), nil
	default:
		return nil, Result{}, err
	}
}
