// Package palette manages the wallpaper background color.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidHex = errors.New("invalid hex color")
	ErrInvalidRGB = errors.New("invalid RGB color")
	// ErrUnsupported reports that no eyedropper is available on this desktop.
	ErrUnsupported = errors.New("eyedropper not supported on this desktop")
	// ErrCancelled reports that the user dismissed the eyedropper.
	ErrCancelled = errors.New("eyedropper cancelled")
)

var hexPattern = regexp.MustCompile(`(?i)^#?([0-9a-f]{3}|[0-9a-f]{6})$`)

// RGB is an opaque sRGB color.
type RGB struct {
	R, G, B uint8
}

// White is the initial background.
var White = RGB{255, 255, 255}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// Hex returns the lowercase "#rrggbb" form.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// CSV returns the "r,g,b" form used by the RGB field.
func (c RGB) CSV() string { return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B) }

func (c RGB) String() string { return c.Hex() }

// FromColor converts any color to RGB, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// ParseHex accepts 3 or 6 hex digits with an optional leading '#'. Three
// digit forms are expanded by duplicating each digit.
func ParseHex(s string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	digits := m[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ParseRGB accepts exactly three comma separated integers in [0,255].
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q needs three components", ErrInvalidRGB, s)
	}
	var out [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidRGB, s)
		}
		if n < 0 || n > 255 {
			return RGB{}, fmt.Errorf("%w: component %d out of range", ErrInvalidRGB, n)
		}
		out[i] = uint8(n)
	}
	return RGB{out[0], out[1], out[2]}, nil
}

// ParseAny accepts a hex color, an "r,g,b" triple or an SVG color name.
func ParseAny(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if c, err := ParseHex(s); err == nil {
		return c, nil
	}
	if strings.Contains(s, ",") {
		return ParseRGB(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(c), nil
	}
	return RGB{}, fmt.Errorf("%w: %q is not a hex value, RGB triple or color name", ErrInvalidHex, s)
}

// BorderAverage returns the channel-wise mean of the one pixel border ring of
// img, rounded to the nearest integer. Each border pixel counts once.
func BorderAverage(img image.Image) (RGB, error) {
	b := img.Bounds()
	if b.Empty() {
		return RGB{}, fmt.Errorf("border average: empty image")
	}
	n := 2*b.Dx() + 2*b.Dy() - 4
	if b.Dx() == 1 || b.Dy() == 1 {
		n = b.Dx() * b.Dy()
	}
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if x != b.Min.X && x != b.Max.X-1 && y != b.Min.Y && y != b.Max.Y-1 {
				x = b.Max.X - 2
				continue
			}
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rs = append(rs, float64(c.R))
			gs = append(gs, float64(c.G))
			bs = append(bs, float64(c.B))
		}
	}
	return RGB{
		R: roundChannel(stat.Mean(rs, nil)),
		G: roundChannel(stat.Mean(gs, nil)),
		B: roundChannel(stat.Mean(bs, nil)),
	}, nil
}

func roundChannel(v float64) uint8 {
	r := math.Floor(v + 0.5)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
