// Package mmcq implements modified median cut quantization over a flat set of
// RGB samples.
//
// Samples are histogrammed into 32x32x32 bins (5 significant bits per channel).
// The populated region of the colour cube is recursively split at the median of
// its widest channel until the requested number of boxes exists. The first 75%
// of the splits are prioritised by population; the remainder by population
// times box volume, which lets sparse but distinct colours earn a box.
//
// Each non-empty box is represented by the mean of the samples that fell into
// it, so a single-colour input quantizes back to exactly that colour.
package mmcq

import (
	"errors"
	"sort"
)

const (
	sigBits            = 5
	rShift             = 8 - sigBits
	histoSize          = 1 << (3 * sigBits)
	maxIterations      = 1000
	fractByPopulations = 0.75

	// MinColors and MaxColors bound the maxColors argument to Quantize.
	MinColors = 2
	MaxColors = 256
)

var (
	// ErrNoPixels is returned when Quantize receives an empty sample.
	ErrNoPixels = errors.New("mmcq: no pixels to quantize")

	// ErrColorCount is returned when maxColors is outside [MinColors, MaxColors].
	ErrColorCount = errors.New("mmcq: color count out of range")
)

// Pixel is an 8-bit RGB triple.
type Pixel [3]uint8

// bin accumulates the samples that share a histogram index.
type bin struct {
	n       int
	r, g, b int
}

type histogram []bin

func colorIndex(r, g, b int) int {
	return (r << (2 * sigBits)) + (g << sigBits) + b
}

func newHistogram(pixels []Pixel) histogram {
	h := make(histogram, histoSize)
	for _, p := range pixels {
		idx := colorIndex(int(p[0]>>rShift), int(p[1]>>rShift), int(p[2]>>rShift))
		h[idx].n++
		h[idx].r += int(p[0])
		h[idx].g += int(p[1])
		h[idx].b += int(p[2])
	}
	return h
}

// Quantize reduces pixels to at most maxColors representative colours.
//
// The returned map orders its boxes by descending population. Quantize fails
// with ErrNoPixels for an empty sample and ErrColorCount when maxColors is out
// of range; both are degenerate requests rather than internal faults.
func Quantize(pixels []Pixel, maxColors int) (*CMap, error) {
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}
	if maxColors < MinColors || maxColors > MaxColors {
		return nil, ErrColorCount
	}

	histo := newHistogram(pixels)
	first := boxFromPixels(pixels, histo)

	pq := newQueue(byCount)
	pq.push(first)

	// First pass: split by population.
	iterate(pq, fractByPopulations*float64(maxColors))

	// Second pass: re-prioritise by population times volume.
	pq2 := newQueue(byCountTimesVolume)
	for pq.size() > 0 {
		pq2.push(pq.pop())
	}
	iterate(pq2, float64(maxColors))

	cmap := &CMap{}
	for pq2.size() > 0 {
		vb := pq2.pop()
		if vb.count() == 0 {
			continue
		}
		cmap.boxes = append(cmap.boxes, vb)
	}
	sort.SliceStable(cmap.boxes, func(i, j int) bool {
		return cmap.boxes[i].count() > cmap.boxes[j].count()
	})
	if len(cmap.boxes) > maxColors {
		cmap.boxes = cmap.boxes[:maxColors]
	}

	return cmap, nil
}

// iterate splits the highest priority box until the queue holds target boxes
// or no further split is possible.
func iterate(pq *queue, target float64) {
	ncolors := pq.size()
	niters := 0

	for niters < maxIterations {
		if float64(ncolors) >= target {
			return
		}
		niters++

		vb := pq.pop()
		if vb.count() == 0 {
			pq.push(vb)
			niters++
			continue
		}

		vb1, vb2 := medianCut(vb)
		if vb1 == nil {
			return
		}
		pq.push(vb1)
		if vb2 != nil {
			pq.push(vb2)
			ncolors++
		}
	}
}

// CMap is the result of a quantization: one box per representative colour.
type CMap struct {
	boxes []*vbox
}

// Palette returns the representative colours, largest population first.
func (c *CMap) Palette() []Pixel {
	out := make([]Pixel, len(c.boxes))
	for i, vb := range c.boxes {
		out[i] = vb.avg()
	}
	return out
}

// Counts returns the number of samples behind each palette entry, in palette order.
func (c *CMap) Counts() []int {
	out := make([]int, len(c.boxes))
	for i, vb := range c.boxes {
		out[i] = vb.count()
	}
	return out
}

// Size returns the number of colours in the map.
func (c *CMap) Size() int {
	return len(c.boxes)
}
