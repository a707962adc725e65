package palette

import (
	"image"
	"image/color"
)

// solidGrid returns a width x height RGBA grid filled with c.
func solidGrid(width, height int, c color.NRGBA) *PixelGrid {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return GridFromNRGBA(img)
}

// halvesGrid returns a grid whose left half is left and right half is right.
func halvesGrid(width, height int, left, right color.NRGBA) *PixelGrid {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return GridFromNRGBA(img)
}

// gradientGrid returns an opaque grid with many distinct colours.
func gradientGrid(width, height int) *PixelGrid {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) * 127 / (width + height)),
				A: 255,
			})
		}
	}
	return GridFromNRGBA(img)
}

var (
	opaqueWhite = color.NRGBA{255, 255, 255, 255}
	opaqueBlack = color.NRGBA{0, 0, 0, 255}
	opaqueRed   = color.NRGBA{255, 0, 0, 255}
	opaqueBlue  = color.NRGBA{0, 0, 255, 255}
	transparent = color.NRGBA{10, 20, 30, 0}
)
