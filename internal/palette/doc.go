// Package palette extracts a representative colour palette and a dominant
// colour from raster pixel data.
//
// The pipeline is linear:
//
//	options -> PixelGrid -> Sample -> Quantizer -> Palette -> (hex)
//
// A PixelGrid is a flat, row-major buffer of RGBA (or RGB) bytes. The sampler
// walks it with a stride set by Options.Quality, drops translucent and
// near-white pixels, and hands the surviving RGB triples to a Quantizer
// (modified median cut by default). The quantizer's colour map, largest
// cluster first, is the palette; the dominant colour is the first entry of a
// fixed five-colour extraction.
//
// # Synchronous and fetching forms
//
// GetPalette and GetColor (and their Hex variants) operate on a PixelGrid the
// caller already holds. FetchPalette and FetchColor first ask a PixelSource to
// decode a Descriptor (file path, URL, data URL, in-memory buffer or image)
// and then run the same pipeline.
//
// The fetching forms are best effort. When the source cannot be acquired
// (missing file, network failure, non-OK HTTP status, nil image) they return
// a Result with OK set to false and the cause in Reason, and a nil error.
// Only invalid options, decode failures (ErrDecode) and context cancellation
// are returned as errors.
//
// # Thread Safety
//
// Every call owns its sample and palette. A Thief holds no mutable state and
// may be shared between goroutines provided its PixelSource and Quantizer are
// safe for concurrent use, which is true of the implementations in this
// repository.
package palette
