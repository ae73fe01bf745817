package compositor

import (
	"errors"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/palette"
)

var (
	// ErrNoImage reports an operation that needs a loaded image.
	ErrNoImage = errors.New("no image loaded")
	// ErrRead reports that image bytes could not be obtained.
	ErrRead = errors.New("could not read image")
	// ErrDecode reports bytes that are not a supported image.
	ErrDecode = errors.New("could not decode image")
)

// Kind groups errors by how the UI should react to them.
type Kind int

const (
	KindNone Kind = iota
	// KindInput is a rejected field value; the user can correct it.
	KindInput
	// KindPrecondition is an operation attempted too early.
	KindPrecondition
	// KindPlatform is a desktop capability that is missing or was dismissed.
	KindPlatform
	// KindAsset is an image that failed to load.
	KindAsset
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInput:
		return "input"
	case KindPrecondition:
		return "precondition"
	case KindPlatform:
		return "platform"
	case KindAsset:
		return "asset"
	}
	return "other"
}

// KindOf classifies err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, canvas.ErrInvalidDimensions),
		errors.Is(err, palette.ErrInvalidHex),
		errors.Is(err, palette.ErrInvalidRGB):
		return KindInput
	case errors.Is(err, ErrNoImage):
		return KindPrecondition
	case errors.Is(err, palette.ErrUnsupported), errors.Is(err, palette.ErrCancelled):
		return KindPlatform
	case errors.Is(err, ErrRead), errors.Is(err, ErrDecode):
		return KindAsset
	}
	return KindOther
}
