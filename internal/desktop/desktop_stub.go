//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package desktop

import (
	"context"
	"fmt"

	"github.com/example/wallsmith/internal/palette"
)

type unsupportedBackend struct{}

func newBackend() platformBackend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Monitors() ([]Monitor, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}

// PickColor is unavailable without the XDG desktop portal.
func PickColor(context.Context) (palette.RGB, error) {
	return palette.RGB{}, ErrUnavailable
}

// OpenFile is unavailable without the XDG desktop portal.
func OpenFile(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
