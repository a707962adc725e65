package palette

import (
	"github.com/ironsheep/colorthief/internal/mmcq"
)

// Quantizer clusters a sample into at most maxColors representative colours,
// largest cluster first. Implementations return an error for degenerate input
// (an empty sample, an unsupported colour count); QuantizeSample turns that
// into an empty palette.
type Quantizer interface {
	Quantize(sample Sample, maxColors int) (Palette, error)
}

// QuantizerFunc adapts a plain function to the Quantizer interface.
type QuantizerFunc func(sample Sample, maxColors int) (Palette, error)

// Quantize calls f(sample, maxColors).
func (f QuantizerFunc) Quantize(sample Sample, maxColors int) (Palette, error) {
	return f(sample, maxColors)
}

// MedianCut is the default Quantizer, backed by modified median cut
// quantization. The zero value is ready to use.
type MedianCut struct{}

// Quantize implements Quantizer.
func (MedianCut) Quantize(sample Sample, maxColors int) (Palette, error) {
	pixels := make([]mmcq.Pixel, len(sample))
	for i, c := range sample {
		pixels[i] = mmcq.Pixel{c.R, c.G, c.B}
	}

	cmap, err := mmcq.Quantize(pixels, maxColors)
	if err != nil {
		return nil, err
	}

	raw := cmap.Palette()
	out := make(Palette, len(raw))
	for i, p := range raw {
		out[i] = Color{R: p[0], G: p[1], B: p[2]}
	}
	return out, nil
}

// QuantizeSample runs q over sample and returns at most colorCount colours.
// Any quantizer failure yields an empty, non-nil palette: an image with no
// usable pixels has no colours rather than an error.
func QuantizeSample(q Quantizer, sample Sample, colorCount int) Palette {
	if q == nil {
		q = MedianCut{}
	}

	pal, err := q.Quantize(sample, colorCount)
	if err != nil || pal == nil {
		return Palette{}
	}
	if len(pal) > colorCount {
		pal = pal[:colorCount]
	}
	return pal
}
