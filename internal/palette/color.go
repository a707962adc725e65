package palette

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple. Equality is component-wise.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Palette is an ordered set of colours, largest cluster first.
type Palette []Color

// ToHex formats c as "#rrggbb". The result is always seven characters, each
// channel zero-padded to two lowercase hex digits independently.
func ToHex(c Color) string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// Hex is shorthand for ToHex(c).
func (c Color) Hex() string {
	return ToHex(c)
}

// Array returns c as a three element slice, the "array" colour type.
func (c Color) Array() [3]uint8 {
	return [3]uint8{c.R, c.G, c.B}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" or "rrggbb" (either case) into a Color.
func ParseHex(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// HSL returns the hue (0-360), saturation (0-100) and lightness (0-100) of c.
func (c Color) HSL() (h, s, l int) {
	hf, sf, lf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	h = int(math.Round(hf)) % 360
	return h, int(math.Round(sf * 100)), int(math.Round(lf * 100))
}

// Hex formats every entry of p with ToHex.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = ToHex(c)
	}
	return out
}

// Arrays returns every entry of p as an [r, g, b] triple.
func (p Palette) Arrays() [][3]uint8 {
	out := make([][3]uint8, len(p))
	for i, c := range p {
		out[i] = c.Array()
	}
	return out
}

// Format renders p in the requested colour type: []string for ColorTypeHex,
// [][3]uint8 for ColorTypeArray.
func (p Palette) Format(t ColorType) interface{} {
	if t.normalize() == ColorTypeArray {
		return p.Arrays()
	}
	return p.Hex()
}
