// Package clipboard moves encoded images and text through the system
// clipboard. Images travel as PNG bytes; decoding is left to the caller.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
)

// Format selects the clipboard target.
type Format int

const (
	FormatImage Format = iota
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "image"
}

var (
	// ErrEmpty reports that the clipboard holds nothing in the requested format.
	ErrEmpty = errors.New("clipboard is empty")
	// ErrUnsupported reports that this build has no clipboard backend.
	ErrUnsupported = errors.New("clipboard is not supported on this platform")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

type backend interface {
	read(f Format) ([]byte, error)
	write(f Format, data []byte) error
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
)

func ensureInit() (backend, error) {
	initOnce.Do(func() {
		active, initErr = newBackend()
	})
	return active, initErr
}

// ReadImage returns the PNG bytes on the clipboard.
func ReadImage() ([]byte, error) { return read(FormatImage) }

// WriteImage publishes PNG encoded data.
func WriteImage(png []byte) error { return write(FormatImage, png) }

// ReadText returns the UTF-8 text on the clipboard.
func ReadText() (string, error) {
	data, err := read(FormatText)
	if err != nil {
		return "", err
	}
	// some X11 clients terminate STRING replies with a NUL
	return string(bytes.TrimRight(data, "\x00")), nil
}

// WriteText publishes text.
func WriteText(text string) error { return write(FormatText, []byte(text)) }

func read(f Format) ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.read(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no %s data", ErrEmpty, f)
	}
	return data, nil
}

func write(f Format, data []byte) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.write(f, data)
}
