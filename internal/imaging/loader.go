package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/colorthief/internal/palette"
)

// mimeFormats maps accepted MIME types to the registered decoder name.
var mimeFormats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// Loader is a palette.PixelSource for encoded images: local files, http(s)
// URLs, data URLs and in-memory buffers. Descriptors carrying an already
// decoded Image are drawn through Canvas.
//
// Decoding honours EXIF orientation. Failures to obtain bytes wrap
// palette.ErrAcquisition; failures to decode bytes wrap palette.ErrDecode.
//
// Loader holds no per-call state and is safe for concurrent use.
type Loader struct {
	client *http.Client
	fetch  FetchOptions
	logger hclog.Logger
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Fetch FetchOptions

	// Client overrides the HTTP client. Its Timeout is left untouched.
	Client *http.Client

	// Logger receives debug output. If nil, logging is discarded.
	Logger hclog.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	client := opts.Client
	if client == nil {
		timeout := opts.Fetch.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Loader{
		client: client,
		fetch:  opts.Fetch,
		logger: logger.Named("loader"),
	}
}

// Decode implements palette.PixelSource.
func (l *Loader) Decode(ctx context.Context, d palette.Descriptor) (*palette.PixelGrid, error) {
	if d.Image != nil {
		return Canvas{}.Decode(ctx, d)
	}

	img, err := l.Open(ctx, d)
	if err != nil {
		return nil, err
	}
	return l.grid(img, d)
}

// Open acquires and decodes the image named by d with EXIF orientation
// applied. d.Region and d.MaxDimension are not applied. If d carries a
// decoded Image it is returned as is.
func (l *Loader) Open(ctx context.Context, d palette.Descriptor) (image.Image, error) {
	if d.Image != nil {
		return d.Image, nil
	}

	data, mimeType, err := l.read(ctx, d)
	if err != nil {
		l.logger.Debug("acquisition failed", "source", d.String(), "error", err)
		return nil, err
	}

	return decode(data, mimeType)
}

// grid applies d's region and size limit to a decoded image and flattens it.
func (l *Loader) grid(img image.Image, d palette.Descriptor) (*palette.PixelGrid, error) {
	img, err := prepare(img, d)
	if err != nil {
		return nil, err
	}

	grid := palette.GridFromNRGBA(imaging.Clone(img))
	l.logger.Trace("decoded image", "source", d.String(), "width", grid.Width, "height", grid.Height)
	return grid, nil
}

// read returns the encoded bytes named by d and the MIME type, if known.
func (l *Loader) read(ctx context.Context, d palette.Descriptor) ([]byte, string, error) {
	switch {
	case d.Buffer != nil:
		if len(d.Buffer) == 0 {
			return nil, "", fmt.Errorf("%w: empty buffer", palette.ErrAcquisition)
		}
		return d.Buffer, d.MimeType, nil

	case d.Location == "":
		return nil, "", fmt.Errorf("%w: empty source", palette.ErrAcquisition)

	case strings.HasPrefix(d.Location, "data:"):
		data, mimeType, err := parseDataURL(d.Location)
		return data, mimeType, err

	case isHTTP(d.Location):
		l.logger.Debug("fetching image", "url", d.Location)
		data, err := fetch(ctx, l.client, d.Location, l.fetch)
		if err != nil {
			return nil, "", err
		}
		l.logger.Debug("fetched image", "url", d.Location, "bytes", len(data))
		return data, "", nil

	default:
		data, err := readFile(d.Location, l.maxBytes())
		return data, "", err
	}
}

func (l *Loader) maxBytes() int64 {
	if l.fetch.MaxBytes > 0 {
		return l.fetch.MaxBytes
	}
	return DefaultMaxBytes
}

func isHTTP(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 - caller-specified image path, intended to be read
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: image file not found: %s", palette.ErrAcquisition, path)
		}
		return nil, fmt.Errorf("%w: failed to open image: %w", palette.ErrAcquisition, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat image: %w", palette.ErrAcquisition, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", palette.ErrAcquisition, path)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", palette.ErrAcquisition, path, limit)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image: %w", palette.ErrAcquisition, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file: %s", palette.ErrAcquisition, path)
	}
	return data, nil
}

// parseDataURL decodes "data:[<mime>][;base64],<payload>".
func parseDataURL(s string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: malformed data URL", palette.ErrAcquisition)
	}

	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(params[0])
	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid base64 in data URL: %w", palette.ErrAcquisition, err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid escape in data URL: %w", palette.ErrAcquisition, err)
		}
		data = []byte(unescaped)
	}

	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty data URL", palette.ErrAcquisition)
	}
	return data, mimeType, nil
}

// decode decodes image bytes, checking them against mimeType when given.
func decode(data []byte, mimeType string) (image.Image, error) {
	if mimeType != "" {
		want, ok := mimeFormats[strings.ToLower(mimeType)]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported MIME type %q", palette.ErrDecode, mimeType)
		}
		_, got, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", palette.ErrDecode, err)
		}
		if got != want {
			return nil, fmt.Errorf("%w: data is %s, not %s", palette.ErrDecode, got, mimeType)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", palette.ErrDecode, err)
	}
	return img, nil
}

// ImageInfo contains metadata about an image source.
type ImageInfo struct {
	// Width is the image width in pixels, before orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, before orientation is applied.
	Height int `json:"height"`

	// Format is the detected decoder name: "png", "jpeg", "gif", "bmp",
	// "tiff" or "webp". Detection is based on content, not file extension.
	Format string `json:"format"`

	// SizeBytes is the size of the encoded image.
	SizeBytes int64 `json:"size_bytes"`
}

// Inspect reads the header of the image named by d and reports its metadata
// without decoding the pixels. Decoded images are reported with format "image".
func (l *Loader) Inspect(ctx context.Context, d palette.Descriptor) (*ImageInfo, error) {
	if d.Image != nil {
		b := d.Image.Bounds()
		return &ImageInfo{Width: b.Dx(), Height: b.Dy(), Format: "image"}, nil
	}

	data, _, err := l.read(ctx, d)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", palette.ErrDecode, err)
	}

	return &ImageInfo{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
		SizeBytes: int64(len(data)),
	}, nil
}
