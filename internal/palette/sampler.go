package palette

const (
	// AlphaThreshold is the minimum alpha a pixel needs to be sampled. More
	// transparent pixels are treated as background.
	AlphaThreshold = 125

	// WhiteThreshold marks near-white pixels: when red, green and blue all
	// exceed it the pixel is treated as blown-out background and skipped.
	WhiteThreshold = 250
)

// Sample is the flat list of RGB triples that survived filtering, in
// traversal order. It belongs to the invocation that produced it.
type Sample []Color

// SamplePixels walks grid with the given stride and returns the pixels worth
// quantizing.
//
// Pixel indices 0, quality, 2*quality, ... are visited while below pixelCount.
// pixelCount is clamped to the number of whole pixels in grid.Pix, so the
// sampler never reads past the buffer. A pixel is skipped when its alpha
// (RGBA grids only) is below AlphaThreshold, or when its red, green and blue
// are all above WhiteThreshold. Quality values below 1 are treated as 1;
// Validate rejects them before this point.
func SamplePixels(grid *PixelGrid, pixelCount, quality int) Sample {
	if grid == nil {
		return Sample{}
	}
	if quality < 1 {
		quality = 1
	}

	ch := grid.channels()
	if n := len(grid.Pix) / ch; pixelCount > n {
		pixelCount = n
	}
	if pixelCount <= 0 {
		return Sample{}
	}

	out := make(Sample, 0, pixelCount/quality+1)
	for i := 0; i < pixelCount; i += quality {
		off := i * ch
		r, g, b := grid.Pix[off], grid.Pix[off+1], grid.Pix[off+2]

		if ch == 4 && grid.Pix[off+3] < AlphaThreshold {
			continue
		}
		if r > WhiteThreshold && g > WhiteThreshold && b > WhiteThreshold {
			continue
		}

		out = append(out, Color{R: r, G: g, B: b})
	}
	return out
}
