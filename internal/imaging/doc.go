// Package imaging acquires and decodes images into palette.PixelGrid values.
//
// Two palette.PixelSource implementations are provided:
//   - Loader: encoded images from a file path, an http(s) URL, a data URL or
//     an in-memory buffer with a MIME type.
//   - Canvas: an already decoded image.Image, drawn onto an RGBA canvas and
//     read back non-premultiplied.
//
// QuadrantSource wraps a Loader to sample one named region (top-left,
// center, ...) resolved against the oriented image.
//
// # Formats
//
// PNG, JPEG and GIF are decoded by the standard library; BMP, TIFF and WebP
// by golang.org/x/image. JPEG EXIF orientation is applied on decode.
//
// # Coordinate System
//
// Regions use 0-based pixel coordinates with (0,0) at the top-left corner of
// the image. For a region, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Error Handling
//
// Errors wrap one of the palette sentinels:
//   - palette.ErrAcquisition: the file is missing or unreadable, the URL
//     cannot be fetched or answers with a non-OK status, or the bytes are empty
//   - palette.ErrDecode: the bytes are not a supported image, or do not match
//     the declared MIME type
//   - palette.ErrInvalidOption: a region lies outside the image or is unknown
//
// # Thread Safety
//
// Loader, Canvas and QuadrantSource keep no per-call state. Nothing is cached between calls.
package imaging
