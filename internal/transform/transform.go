// Package transform holds the affine placement of the source image on the
// wallpaper raster.
package transform

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/example/wallsmith/internal/canvas"
)

const (
	MinScale = 0.1
	MaxScale = 5
	// MaxSkew bounds both shear coefficients symmetrically.
	MaxSkew = 0.5

	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
	RotateStep    = 15
	SkewStep      = 0.05

	// SnapThreshold is the distance in raster pixels under which the image
	// center snaps to the canvas center.
	SnapThreshold = 15
)

// State is the image placement. X and Y are the top-left corner of the
// scaled, untransformed image in raster pixels. Values are immutable; every
// operation returns a new State.
type State struct {
	X, Y     float64
	Scale    float64
	Rotation float64 // degrees, not wrapped
	SkewX    float64
	SkewY    float64
}

// Identity is the unplaced state with unit scale.
func Identity() State { return State{Scale: 1} }

// Reset centers img on c with unit scale, no rotation and no skew.
func Reset(c, img canvas.Size) State {
	return State{
		X:     float64(c.W-img.W) / 2,
		Y:     float64(c.H-img.H) / 2,
		Scale: 1,
	}
}

// ClampScale limits v to [MinScale, MaxScale].
func ClampScale(v float64) float64 { return clamp(v, MinScale, MaxScale) }

// ClampSkew limits v to [-MaxSkew, MaxSkew].
func ClampSkew(v float64) float64 { return clamp(v, -MaxSkew, MaxSkew) }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// WithScale returns s with a clamped scale. The top-left corner is kept.
func (s State) WithScale(v float64) State {
	s.Scale = ClampScale(v)
	return s
}

// WithSkew returns s with clamped shear coefficients.
func (s State) WithSkew(x, y float64) State {
	s.SkewX = ClampSkew(x)
	s.SkewY = ClampSkew(y)
	return s
}

// WithRotation returns s rotated to deg degrees.
func (s State) WithRotation(deg float64) State {
	s.Rotation = deg
	return s
}

// WithPosition returns s moved so its top-left corner is at (x, y).
func (s State) WithPosition(x, y float64) State {
	s.X, s.Y = x, y
	return s
}

func (s State) ZoomIn() State      { return s.WithScale(s.Scale * ZoomInFactor) }
func (s State) ZoomOut() State     { return s.WithScale(s.Scale * ZoomOutFactor) }
func (s State) RotateLeft() State  { return s.WithRotation(s.Rotation - RotateStep) }
func (s State) RotateRight() State { return s.WithRotation(s.Rotation + RotateStep) }
func (s State) SkewXStep() State   { return s.WithSkew(s.SkewX+SkewStep, s.SkewY) }
func (s State) SkewYStep() State   { return s.WithSkew(s.SkewX, s.SkewY+SkewStep) }

// ZoomAbout scales by factor while keeping the image center fixed.
func (s State) ZoomAbout(img canvas.Size, factor float64) State {
	cx, cy := s.Center(img)
	return s.WithScale(s.Scale*factor).WithCenter(img, cx, cy)
}

// Center returns the center of the scaled image in raster pixels.
func (s State) Center(img canvas.Size) (float64, float64) {
	return s.X + float64(img.W)*s.Scale/2, s.Y + float64(img.H)*s.Scale/2
}

// WithCenter returns s moved so that its center is at (cx, cy).
func (s State) WithCenter(img canvas.Size, cx, cy float64) State {
	s.X = cx - float64(img.W)*s.Scale/2
	s.Y = cy - float64(img.H)*s.Scale/2
	return s
}

// Matrix maps source image pixels to raster pixels: the image is centered
// on the origin, scaled, sheared, rotated, then moved to its center.
func (s State) Matrix(img canvas.Size) gg.Matrix {
	cx, cy := s.Center(img)
	return gg.Translate(cx, cy).
		Multiply(gg.Rotate(s.Rotation * math.Pi / 180)).
		Multiply(gg.Shear(s.SkewX, s.SkewY)).
		Multiply(gg.Scale(s.Scale, s.Scale)).
		Multiply(gg.Translate(-float64(img.W)/2, -float64(img.H)/2))
}

// Guides reports which center guides are active.
type Guides struct {
	X bool // vertical line through the canvas center
	Y bool // horizontal line through the canvas center
}

// Any reports whether either guide is active.
func (g Guides) Any() bool { return g.X || g.Y }

// Snap aligns each axis whose image center lies strictly within
// SnapThreshold of the canvas center. Other axes are left untouched.
func (s State) Snap(img, c canvas.Size) (State, Guides) {
	var g Guides
	cx, cy := float64(c.W)/2, float64(c.H)/2
	ix, iy := s.Center(img)
	if math.Abs(ix-cx) < SnapThreshold {
		s.X = cx - float64(img.W)*s.Scale/2
		g.X = true
	}
	if math.Abs(iy-cy) < SnapThreshold {
		s.Y = cy - float64(img.H)*s.Scale/2
		g.Y = true
	}
	return s, g
}

func (s State) String() string {
	return fmt.Sprintf("pos=(%.1f,%.1f) scale=%.3f rotate=%.1f skew=(%.2f,%.2f)",
		s.X, s.Y, s.Scale, s.Rotation, s.SkewX, s.SkewY)
}
