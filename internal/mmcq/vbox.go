package mmcq

import "sort"

// vbox is an axis-aligned box in the reduced (5-bit) colour cube.
// Bounds are inclusive.
type vbox struct {
	r1, r2 int
	g1, g2 int
	b1, b2 int

	histo histogram

	counted bool
	n       int
}

func boxFromPixels(pixels []Pixel, histo histogram) *vbox {
	rmin, gmin, bmin := 1<<sigBits, 1<<sigBits, 1<<sigBits
	rmax, gmax, bmax := 0, 0, 0

	for _, p := range pixels {
		r, g, b := int(p[0]>>rShift), int(p[1]>>rShift), int(p[2]>>rShift)
		rmin, rmax = min(rmin, r), max(rmax, r)
		gmin, gmax = min(gmin, g), max(gmax, g)
		bmin, bmax = min(bmin, b), max(bmax, b)
	}

	return &vbox{r1: rmin, r2: rmax, g1: gmin, g2: gmax, b1: bmin, b2: bmax, histo: histo}
}

func (v *vbox) volume() int {
	return (v.r2 - v.r1 + 1) * (v.g2 - v.g1 + 1) * (v.b2 - v.b1 + 1)
}

func (v *vbox) count() int {
	if v.counted {
		return v.n
	}
	n := 0
	v.each(func(b bin) { n += b.n })
	v.n, v.counted = n, true
	return n
}

func (v *vbox) each(fn func(bin)) {
	for i := v.r1; i <= v.r2; i++ {
		for j := v.g1; j <= v.g2; j++ {
			for k := v.b1; k <= v.b2; k++ {
				fn(v.histo[colorIndex(i, j, k)])
			}
		}
	}
}

// avg is the mean of the samples inside the box. An empty box falls back to
// the centre of its bounds.
func (v *vbox) avg() Pixel {
	var n, rs, gs, bs int
	v.each(func(b bin) {
		n += b.n
		rs += b.r
		gs += b.g
		bs += b.b
	})

	if n == 0 {
		mult := 1 << rShift
		return Pixel{
			clamp8(mult * (v.r1 + v.r2 + 1) / 2),
			clamp8(mult * (v.g1 + v.g2 + 1) / 2),
			clamp8(mult * (v.b1 + v.b2 + 1) / 2),
		}
	}

	return Pixel{
		uint8((rs + n/2) / n),
		uint8((gs + n/2) / n),
		uint8((bs + n/2) / n),
	}
}

func (v *vbox) copy() *vbox {
	return &vbox{
		r1: v.r1, r2: v.r2,
		g1: v.g1, g2: v.g2,
		b1: v.b1, b2: v.b2,
		histo: v.histo,
	}
}

func clamp8(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

type axis int

const (
	axisR axis = iota
	axisG
	axisB
)

// bounds returns pointers to the lower and upper bound of a on v.
func (v *vbox) bounds(a axis) (*int, *int) {
	switch a {
	case axisR:
		return &v.r1, &v.r2
	case axisG:
		return &v.g1, &v.g2
	default:
		return &v.b1, &v.b2
	}
}

// medianCut splits vb at the population median of its widest axis. It returns
// (nil, nil) for an empty box and (copy, nil) for a box holding one sample.
func medianCut(vb *vbox) (*vbox, *vbox) {
	total := vb.count()
	if total == 0 {
		return nil, nil
	}
	if total == 1 {
		return vb.copy(), nil
	}

	rw := vb.r2 - vb.r1 + 1
	gw := vb.g2 - vb.g1 + 1
	bw := vb.b2 - vb.b1 + 1
	maxw := max(rw, gw, bw)

	cut := axisB
	switch maxw {
	case rw:
		cut = axisR
	case gw:
		cut = axisG
	}

	// partial[i] is the cumulative population of all slices up to and
	// including i along the cut axis.
	var partial, lookahead [1 << sigBits]int
	lo, hi := vb.bounds(cut)
	sum := 0
	for i := *lo; i <= *hi; i++ {
		slice := *vb
		sl, sh := slice.bounds(cut)
		*sl, *sh = i, i
		slice.counted = false
		sum += slice.count()
		partial[i] = sum
	}
	for i := *lo; i <= *hi; i++ {
		lookahead[i] = total - partial[i]
	}

	at := func(arr *[1 << sigBits]int, i int) int {
		if i < 0 || i >= len(arr) {
			return 0
		}
		return arr[i]
	}

	for i := *lo; i <= *hi; i++ {
		if 2*partial[i] <= total {
			continue
		}

		vb1, vb2 := vb.copy(), vb.copy()
		left := i - *lo
		right := *hi - i

		var d2 int
		if left <= right {
			d2 = min(*hi-1, i+right/2)
		} else {
			d2 = max(*lo, (2*(i-1)-left)/2)
		}

		// Avoid zero-population slices.
		for at(&partial, d2) == 0 {
			d2++
		}
		count2 := at(&lookahead, d2)
		for count2 == 0 && at(&partial, d2-1) != 0 {
			d2--
			count2 = at(&lookahead, d2)
		}

		_, h1 := vb1.bounds(cut)
		l2, _ := vb2.bounds(cut)
		*h1 = d2
		*l2 = d2 + 1
		return vb1, vb2
	}

	return nil, nil
}

type lessFunc func(a, b *vbox) bool

func byCount(a, b *vbox) bool {
	return a.count() < b.count()
}

func byCountTimesVolume(a, b *vbox) bool {
	return a.count()*a.volume() < b.count()*b.volume()
}

// queue is a lazily sorted priority queue; pop returns the greatest element.
type queue struct {
	less     lessFunc
	contents []*vbox
	sorted   bool
}

func newQueue(less lessFunc) *queue {
	return &queue{less: less}
}

func (q *queue) push(v *vbox) {
	q.contents = append(q.contents, v)
	q.sorted = false
}

func (q *queue) pop() *vbox {
	if !q.sorted {
		sort.SliceStable(q.contents, func(i, j int) bool {
			return q.less(q.contents[i], q.contents[j])
		})
		q.sorted = true
	}
	last := len(q.contents) - 1
	v := q.contents[last]
	q.contents = q.contents[:last]
	return v
}

func (q *queue) size() int {
	return len(q.contents)
}
