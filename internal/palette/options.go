package palette

import (
	"fmt"
	"strings"
)

const (
	// DefaultQuality inspects roughly one pixel in ten.
	DefaultQuality = 10

	// DefaultColorCount is the palette size used when callers have no preference.
	DefaultColorCount = 10

	// MinColorCount is the smallest palette that can be requested. Asking for a
	// single colour is what GetColor is for.
	MinColorCount = 2

	// MaxColorCount caps palette requests; larger values are clamped.
	MaxColorCount = 20

	// DominantColorCount is the fixed cluster count behind GetColor and FetchColor.
	DominantColorCount = 5
)

// ColorType selects the shape of formatted output.
type ColorType string

const (
	// ColorTypeHex renders colours as "#rrggbb" strings.
	ColorTypeHex ColorType = "hex"

	// ColorTypeArray renders colours as [r, g, b] triples.
	ColorTypeArray ColorType = "array"
)

// normalize maps the zero value to the default, ColorTypeHex.
func (t ColorType) normalize() ColorType {
	if t == "" {
		return ColorTypeHex
	}
	return t
}

// ParseColorType parses "hex" or "array" (case-insensitive). The empty string
// yields ColorTypeHex.
func ParseColorType(s string) (ColorType, error) {
	t := ColorType(strings.ToLower(strings.TrimSpace(s))).normalize()
	switch t {
	case ColorTypeHex, ColorTypeArray:
		return t, nil
	default:
		return "", fmt.Errorf("%w: color type %q (want %q or %q)", ErrInvalidOption, s, ColorTypeHex, ColorTypeArray)
	}
}

// Options controls a single extraction.
type Options struct {
	// Quality is the sampling stride: 1 inspects every pixel, 10 roughly one
	// in ten. Must be at least 1.
	Quality int `json:"quality"`

	// ColorType selects formatted output. Empty means ColorTypeHex.
	ColorType ColorType `json:"color_type,omitempty"`
}

// DefaultOptions returns quality 10 and hex output.
func DefaultOptions() Options {
	return Options{Quality: DefaultQuality, ColorType: ColorTypeHex}
}

// Validate normalizes a colour count and options.
//
// Quality must be at least 1. Colour counts below MinColorCount are rejected;
// counts above MaxColorCount are clamped. The returned Options always carry a
// non-empty ColorType. All failures wrap ErrInvalidOption.
func Validate(colorCount int, opts Options) (int, Options, error) {
	if opts.Quality < 1 {
		return 0, Options{}, fmt.Errorf("%w: quality must be a positive integer, got %d", ErrInvalidOption, opts.Quality)
	}

	ct, err := ParseColorType(string(opts.ColorType))
	if err != nil {
		return 0, Options{}, err
	}
	opts.ColorType = ct

	switch {
	case colorCount == 1:
		return 0, Options{}, fmt.Errorf("%w: color count must be between %d and %d; use GetColor for a single color",
			ErrInvalidOption, MinColorCount, MaxColorCount)
	case colorCount < MinColorCount:
		return 0, Options{}, fmt.Errorf("%w: color count must be between %d and %d, got %d",
			ErrInvalidOption, MinColorCount, MaxColorCount, colorCount)
	case colorCount > MaxColorCount:
		colorCount = MaxColorCount
	}

	return colorCount, opts, nil
}
