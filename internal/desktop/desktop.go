// Package desktop talks to the running desktop session: it reads the monitor
// layout to size the wallpaper and drives the XDG desktop portal for the
// eyedropper and the file chooser.
package desktop

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/wallsmith/internal/canvas"
)

type platformBackend interface {
	Monitors() ([]Monitor, error)
}

var backend platformBackend = newBackend()

var (
	ErrNoMonitors = errors.New("no monitors available")
	// ErrUnavailable reports that the desktop portal cannot be reached.
	ErrUnavailable = errors.New("desktop portal unavailable")
	// ErrCancelled reports that the user dismissed a portal dialog.
	ErrCancelled = errors.New("portal request cancelled")
)

// Monitor is one output in the display layout.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

func (m Monitor) String() string {
	s := fmt.Sprintf("%d: %s %dx%d+%d+%d", m.Index, m.Name, m.Rect.Dx(), m.Rect.Dy(), m.Rect.Min.X, m.Rect.Min.Y)
	if m.Primary {
		s += " (primary)"
	}
	return s
}

// Monitors lists the connected monitors.
func Monitors() ([]Monitor, error) {
	return backend.Monitors()
}

// FindMonitor resolves a selector against monitors. An empty selector or
// "primary" picks the primary output, falling back to the first. A number,
// optionally prefixed with '#', selects by index; anything else matches a
// substring of the output name.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, ErrNoMonitors
	}
	lower := strings.ToLower(strings.TrimSpace(selector))
	if lower == "" || lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	lower = strings.TrimPrefix(lower, "#")
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return Monitor{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return Monitor{}, fmt.Errorf("monitor %q not found", selector)
}

// Resolution reports the size of the selected monitor. RandR reports device
// pixels, so the CSS size is the device size divided by scale.
func Resolution(selector string, scale float64) (canvas.Resolution, error) {
	monitors, err := Monitors()
	if err != nil {
		return canvas.Resolution{}, err
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return canvas.Resolution{}, err
	}
	if scale <= 0 {
		scale = 1
	}
	return canvas.Resolution{
		Width:  float64(mon.Rect.Dx()) / scale,
		Height: float64(mon.Rect.Dy()) / scale,
		Scale:  scale,
	}, nil
}

// Detector returns a canvas.Detector for the selected monitor.
func Detector(selector string, scale float64) canvas.Detector {
	return canvas.DetectorFunc(func() (canvas.Resolution, error) {
		return Resolution(selector, scale)
	})
}
