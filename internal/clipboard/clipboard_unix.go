//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"os"

	"golang.design/x/clipboard"
)

type cgoBackend struct{}

func newBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return cgoBackend{}, nil
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (cgoBackend) read(f Format) ([]byte, error) {
	return clipboard.Read(target(f)), nil
}

func (cgoBackend) write(f Format, data []byte) error {
	clipboard.Write(target(f), data)
	return nil
}

func target(f Format) clipboard.Format {
	if f == FormatText {
		return clipboard.FmtText
	}
	return clipboard.FmtImage
}
