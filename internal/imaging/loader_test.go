package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/colorthief/internal/palette"
)

// solidImage creates an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// quadrantImage creates an image with different colors in each quadrant:
// red top-left, green top-right, blue bottom-left, black bottom-right.
func quadrantImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255}
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255}
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255}
			} else {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// writePNG writes img to a PNG file in a temp directory and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := os.WriteFile(path, encodePNG(t, img), 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func pixelAt(g *palette.PixelGrid, x, y int) [4]byte {
	off := (y*g.Width + x) * 4
	return [4]byte{g.Pix[off], g.Pix[off+1], g.Pix[off+2], g.Pix[off+3]}
}

func TestLoader_DecodeFile(t *testing.T) {
	path := writePNG(t, solidImage(40, 30, color.NRGBA{255, 128, 64, 255}))
	l := NewLoader(LoaderOptions{})

	grid, err := l.Decode(context.Background(), palette.Descriptor{Location: path})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if grid.Width != 40 || grid.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", grid.Width, grid.Height)
	}
	if grid.Channels != 4 || len(grid.Pix) != 40*30*4 {
		t.Errorf("buffer: channels %d, %d bytes", grid.Channels, len(grid.Pix))
	}
	if got := pixelAt(grid, 20, 15); got != [4]byte{255, 128, 64, 255} {
		t.Errorf("pixel: got %v, want [255 128 64 255]", got)
	}
}

func TestLoader_AcquisitionFailures(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		d    palette.Descriptor
	}{
		{"missing file", palette.Descriptor{Location: "/nonexistent/path/to/image.png"}},
		{"directory", palette.Descriptor{Location: dir}},
		{"empty file", palette.Descriptor{Location: empty}},
		{"empty descriptor", palette.Descriptor{}},
		{"empty buffer", palette.Descriptor{Buffer: []byte{}, MimeType: "image/png"}},
		{"malformed data URL", palette.Descriptor{Location: "data:image/png;base64"}},
		{"bad base64", palette.Descriptor{Location: "data:image/png;base64,!!!!"}},
	}

	l := NewLoader(LoaderOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Decode(context.Background(), tt.d)
			if !errors.Is(err, palette.ErrAcquisition) {
				t.Errorf("got %v, want ErrAcquisition", err)
			}
		})
	}
}

func TestLoader_DecodeFailures(t *testing.T) {
	pngBytes := encodePNG(t, solidImage(4, 4, color.NRGBA{1, 2, 3, 255}))
	junk := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		d    palette.Descriptor
	}{
		{"junk file", palette.Descriptor{Location: junk}},
		{"junk buffer", palette.Descriptor{Buffer: []byte("not an image"), MimeType: "image/png"}},
		{"junk buffer without type", palette.Descriptor{Buffer: []byte("not an image")}},
		{"unsupported mime type", palette.Descriptor{Buffer: pngBytes, MimeType: "image/svg+xml"}},
		{"mismatched mime type", palette.Descriptor{Buffer: pngBytes, MimeType: "image/jpeg"}},
	}

	l := NewLoader(LoaderOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Decode(context.Background(), tt.d)
			if !errors.Is(err, palette.ErrDecode) {
				t.Errorf("got %v, want ErrDecode", err)
			}
		})
	}
}

func TestLoader_DecodeBuffer(t *testing.T) {
	l := NewLoader(LoaderOptions{})

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, solidImage(16, 16, color.NRGBA{0, 0, 0, 255}), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}

	tests := []struct {
		name string
		d    palette.Descriptor
	}{
		{"png", palette.Descriptor{Buffer: encodePNG(t, solidImage(16, 16, color.Black)), MimeType: "image/png"}},
		{"png upper-case type", palette.Descriptor{Buffer: encodePNG(t, solidImage(16, 16, color.Black)), MimeType: "IMAGE/PNG"}},
		{"jpeg", palette.Descriptor{Buffer: jpg.Bytes(), MimeType: "image/jpeg"}},
		{"sniffed", palette.Descriptor{Buffer: jpg.Bytes()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := l.Decode(context.Background(), tt.d)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if grid.Width != 16 || grid.Height != 16 {
				t.Errorf("dimensions: got %dx%d, want 16x16", grid.Width, grid.Height)
			}
		})
	}
}

func TestLoader_DecodeDataURL(t *testing.T) {
	data := encodePNG(t, solidImage(3, 2, color.NRGBA{9, 8, 7, 255}))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	grid, err := NewLoader(LoaderOptions{}).Decode(context.Background(), palette.Descriptor{Location: uri})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 3 || grid.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", grid.Width, grid.Height)
	}
	if got := pixelAt(grid, 0, 0); got != [4]byte{9, 8, 7, 255} {
		t.Errorf("pixel: got %v", got)
	}
}

func TestLoader_DecodeURL(t *testing.T) {
	body := encodePNG(t, solidImage(8, 8, color.NRGBA{0, 0, 255, 255}))
	var gotUA string

	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	})
	mux.HandleFunc("/empty.png", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/garbage.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not found</html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(LoaderOptions{Fetch: FetchOptions{UserAgent: "test-agent"}})
	ctx := context.Background()

	grid, err := l.Decode(ctx, palette.Descriptor{Location: srv.URL + "/image.png"})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 8 || grid.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 8x8", grid.Width, grid.Height)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent: got %q, want test-agent", gotUA)
	}

	if _, err := l.Decode(ctx, palette.Descriptor{Location: srv.URL + "/missing.png"}); !errors.Is(err, palette.ErrAcquisition) {
		t.Errorf("404: got %v, want ErrAcquisition", err)
	}
	if _, err := l.Decode(ctx, palette.Descriptor{Location: srv.URL + "/empty.png"}); !errors.Is(err, palette.ErrAcquisition) {
		t.Errorf("empty body: got %v, want ErrAcquisition", err)
	}
	if _, err := l.Decode(ctx, palette.Descriptor{Location: srv.URL + "/garbage.png"}); !errors.Is(err, palette.ErrDecode) {
		t.Errorf("garbage body: got %v, want ErrDecode", err)
	}
}

func TestLoader_DecodeURL_TooLarge(t *testing.T) {
	body := encodePNG(t, solidImage(32, 32, color.NRGBA{1, 1, 1, 255}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(LoaderOptions{Fetch: FetchOptions{MaxBytes: 16}})
	_, err := l.Decode(context.Background(), palette.Descriptor{Location: srv.URL})
	if !errors.Is(err, palette.ErrAcquisition) {
		t.Errorf("got %v, want ErrAcquisition", err)
	}
}

func TestLoader_Region(t *testing.T) {
	path := writePNG(t, quadrantImage(100, 100))
	l := NewLoader(LoaderOptions{})

	region := image.Rect(50, 0, 100, 50)
	grid, err := l.Decode(context.Background(), palette.Descriptor{Location: path, Region: &region})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 50 || grid.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", grid.Width, grid.Height)
	}
	if got := pixelAt(grid, 0, 0); got != [4]byte{0, 255, 0, 255} {
		t.Errorf("top-right region should be green, got %v", got)
	}

	outside := image.Rect(50, 50, 150, 150)
	_, err = l.Decode(context.Background(), palette.Descriptor{Location: path, Region: &outside})
	if !errors.Is(err, palette.ErrInvalidOption) {
		t.Errorf("out-of-bounds region: got %v, want ErrInvalidOption", err)
	}
}

func TestLoader_MaxDimension(t *testing.T) {
	path := writePNG(t, solidImage(200, 100, color.NRGBA{10, 20, 30, 255}))
	l := NewLoader(LoaderOptions{})

	grid, err := l.Decode(context.Background(), palette.Descriptor{Location: path, MaxDimension: 50})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 50 || grid.Height != 25 {
		t.Errorf("dimensions: got %dx%d, want 50x25", grid.Width, grid.Height)
	}

	// Smaller images are never enlarged.
	grid, err = l.Decode(context.Background(), palette.Descriptor{Location: path, MaxDimension: 500})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 200 || grid.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 200x100", grid.Width, grid.Height)
	}
}

func TestLoader_DecodeImageUsesCanvas(t *testing.T) {
	img := solidImage(5, 5, color.NRGBA{200, 100, 50, 255})
	grid, err := NewLoader(LoaderOptions{}).Decode(context.Background(), palette.Descriptor{Image: img})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := pixelAt(grid, 4, 4); got != [4]byte{200, 100, 50, 255} {
		t.Errorf("pixel: got %v", got)
	}
}

func TestLoader_Inspect(t *testing.T) {
	path := writePNG(t, solidImage(200, 150, color.NRGBA{255, 128, 64, 255}))
	l := NewLoader(LoaderOptions{})

	info, err := l.Inspect(context.Background(), palette.Descriptor{Location: path})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.SizeBytes <= 0 {
		t.Error("SizeBytes should be positive")
	}

	if _, err := l.Inspect(context.Background(), palette.Descriptor{Location: "/nonexistent/image.png"}); !errors.Is(err, palette.ErrAcquisition) {
		t.Errorf("missing file: got %v, want ErrAcquisition", err)
	}
}

// Extraction through the loader, end to end.

func TestFetchPalette_FromFile(t *testing.T) {
	path := writePNG(t, solidImage(10, 10, color.NRGBA{0, 0, 0, 255}))
	thief := palette.New(NewLoader(LoaderOptions{}), nil)

	res, err := thief.FetchColor(context.Background(), palette.Descriptor{Location: path}, palette.Options{Quality: 1})
	if err != nil {
		t.Fatalf("FetchColor failed: %v", err)
	}
	if hex, ok := res.DominantHex(); !ok || hex != "#000000" {
		t.Errorf("dominant: got (%q, %v), want #000000", hex, ok)
	}
}

func TestFetchPalette_UnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/image.png"
	srv.Close()

	thief := palette.New(NewLoader(LoaderOptions{}), nil)
	ctx := context.Background()

	res, err := thief.FetchPalette(ctx, palette.Descriptor{Location: url}, 5, palette.DefaultOptions())
	if err != nil {
		t.Fatalf("FetchPalette should degrade, got error: %v", err)
	}
	if res.OK || len(res.Palette) != 0 {
		t.Errorf("FetchPalette: got OK=%v Palette=%v, want empty failure", res.OK, res.Palette)
	}

	res, err = thief.FetchColor(ctx, palette.Descriptor{Location: url}, palette.DefaultOptions())
	if err != nil {
		t.Fatalf("FetchColor should degrade, got error: %v", err)
	}
	if res.OK || res.Dominant != nil {
		t.Errorf("FetchColor: got OK=%v Dominant=%v, want no color", res.OK, res.Dominant)
	}
}

func TestFetchPalette_ConcurrentIndependent(t *testing.T) {
	path := writePNG(t, quadrantImage(60, 60))
	thief := palette.New(NewLoader(LoaderOptions{}), nil)

	want, err := thief.FetchPalette(context.Background(), palette.Descriptor{Location: path}, 4, palette.Options{Quality: 1})
	if err != nil {
		t.Fatalf("FetchPalette failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := thief.FetchPalette(context.Background(), palette.Descriptor{Location: path}, 4, palette.Options{Quality: 1})
			if err != nil {
				errs <- err.Error()
				return
			}
			if len(got.Palette) != len(want.Palette) {
				errs <- "palette length differs"
				return
			}
			for j := range want.Palette {
				if got.Palette[j] != want.Palette[j] {
					errs <- "palette entry differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
