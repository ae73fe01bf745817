// Package canvas sizes the wallpaper raster from the display or a manual
// size, and fits it into the window for preview.
package canvas

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExpandFactor is the margin applied to the detected resolution when
// expansion is enabled.
const ExpandFactor = 1.1

// MaxDimension is the largest raster side accepted.
const MaxDimension = 16384

// ErrInvalidDimensions reports a manual size that is not positive or exceeds
// MaxDimension.
var ErrInvalidDimensions = errors.New("please enter valid dimensions (greater than 0)")

// Size is a raster size in pixels.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Resolution is a display size in logical pixels together with its device
// pixel ratio.
type Resolution struct {
	Width  float64
	Height float64
	Scale  float64
}

// Device returns the hardware resolution, screen size times pixel ratio.
func (r Resolution) Device() (float64, float64) {
	s := r.Scale
	if s <= 0 {
		s = 1
	}
	return r.Width * s, r.Height * s
}

// Detector reports the resolution of the display the wallpaper targets.
type Detector interface {
	Resolution() (Resolution, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func() (Resolution, error)

// Resolution calls f.
func (f DetectorFunc) Resolution() (Resolution, error) { return f() }

// Fixed is a Detector that always reports r.
func Fixed(r Resolution) Detector {
	return DetectorFunc(func() (Resolution, error) { return r, nil })
}

// Sizer computes raster dimensions.
type Sizer struct {
	Device Resolution
	Expand bool
}

// SetSize returns the raster size. A non-nil manual size is used exactly,
// without expansion. Otherwise the device resolution is used, grown by
// ExpandFactor when Expand is set. Each side is kept in [1, MaxDimension].
func (z Sizer) SetSize(manual *Size) Size {
	var w, h float64
	if manual != nil {
		w, h = float64(manual.W), float64(manual.H)
	} else {
		w, h = z.Device.Device()
		if z.Expand {
			w *= ExpandFactor
			h *= ExpandFactor
		}
	}
	return Size{W: roundDim(w), H: roundDim(h)}
}

func roundDim(v float64) int {
	if math.IsNaN(v) {
		return 1
	}
	r := math.Round(v)
	switch {
	case r < 1:
		return 1
	case r > MaxDimension:
		return MaxDimension
	}
	return int(r)
}

// DisplayScale returns the visual-only factor that fits raster inside
// viewport. It never exceeds 1. An empty viewport yields 1.
func DisplayScale(raster, viewport Size) float64 {
	if raster.Empty() || viewport.Empty() {
		return 1
	}
	return math.Min(math.Min(float64(viewport.W)/float64(raster.W), float64(viewport.H)/float64(raster.H)), 1)
}

// ParseManual parses the manual width and height fields. An empty or zero
// field falls back to the device value. Only a leading integer is read, so
// "1920px" is 1920.
func ParseManual(wText, hText string, device Resolution) (Size, error) {
	dw, dh := device.Device()
	w := leadingInt(wText)
	if w == 0 {
		w = int(math.Floor(dw))
	}
	h := leadingInt(hText)
	if h == 0 {
		h = int(math.Floor(dh))
	}
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return Size{}, fmt.Errorf("%w: %d x %d (max %d)", ErrInvalidDimensions, w, h, MaxDimension)
	}
	return Size{W: w, H: h}, nil
}

// leadingInt returns the integer prefix of s or 0 when there is none. An
// out-of-range prefix saturates.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}
