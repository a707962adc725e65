package palette

import "errors"

var (
	// ErrInvalidOption reports a malformed quality, colour count or colour type.
	// It is raised before any pixel is read.
	ErrInvalidOption = errors.New("invalid option")

	// ErrAcquisition reports that a PixelSource could not obtain image bytes:
	// a missing file, a network failure, a non-OK HTTP status or an empty image.
	// The fetching operations degrade this to an empty Result.
	ErrAcquisition = errors.New("image acquisition failed")

	// ErrDecode reports that image bytes were obtained but could not be decoded.
	// The fetching operations propagate it to the caller.
	ErrDecode = errors.New("image decode failed")

	// ErrNoSource reports a fetching operation on a Thief created without a
	// PixelSource. It is a programming error and is never degraded.
	ErrNoSource = errors.New("no pixel source configured")
)
