package desktop

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/wallsmith/internal/palette"
)

// Eyedropper is a palette.Picker backed by the screenshot portal.
type Eyedropper struct{}

// Pick maps portal failures onto the palette errors.
func (Eyedropper) Pick(ctx context.Context) (palette.RGB, error) {
	c, err := PickColor(ctx)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, ErrCancelled):
		return palette.RGB{}, palette.ErrCancelled
	case errors.Is(err, ErrUnavailable):
		return palette.RGB{}, fmt.Errorf("%w: %v", palette.ErrUnsupported, err)
	}
	return palette.RGB{}, err
}
