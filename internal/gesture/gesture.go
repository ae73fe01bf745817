// Package gesture turns pointer and touch input into placement updates.
//
// The Interpreter is a small state machine with three phases. A pointer
// press or a single touch drags the image around an anchor expressed in the
// image's own unscaled coordinates. Two touches pinch, rotate and skew from a
// snapshot taken when the second finger lands. Lifting one of the two fingers
// hands over to a drag with a fresh anchor so the image does not jump.
package gesture

import (
	"fmt"
	"math"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/transform"
)

// Phase is the interpreter state.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Transforming
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Transforming:
		return "transforming"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// skewFactor converts the slope of the finger pair into a shear coefficient.
const skewFactor = 0.1

// minAxisRatio is the smallest share of the finger distance an axis must
// span before it is used as a divisor for the skew components. Below it the
// pair counts as axis aligned and the component is 0, which bounds each
// component at skewFactor/minAxisRatio.
const minAxisRatio = 0.05

// Point is a position in window or raster pixels.
type Point struct {
	X, Y float64
}

// Viewport maps window coordinates onto the raster. Origin is where the top
// left corner of the raster is shown and DisplayedWidth its on-screen width.
type Viewport struct {
	Origin         Point
	Raster         canvas.Size
	DisplayedWidth float64
}

// ToRaster converts a window position into raster pixels. The width ratio is
// applied to both axes since the display scale is uniform.
func (v Viewport) ToRaster(p Point) Point {
	f := 1.0
	if v.DisplayedWidth > 0 && v.Raster.W > 0 {
		f = float64(v.Raster.W) / v.DisplayedWidth
	}
	return Point{X: (p.X - v.Origin.X) * f, Y: (p.Y - v.Origin.Y) * f}
}

// Anchor is the image point held under the pointer during a drag, relative to
// the image center in unscaled image pixels.
type Anchor struct {
	X, Y float64
}

// Snapshot records the placement and finger geometry when a two-touch gesture
// starts.
type Snapshot struct {
	Scale    float64
	Rotation float64
	SkewX    float64
	SkewY    float64

	Distance float64
	Angle    float64 // degrees
	SlopeX   float64
	SlopeY   float64
}

// Interpreter tracks a single interaction. The zero value is Idle.
type Interpreter struct {
	View  Viewport
	Image canvas.Size

	phase  Phase
	anchor Anchor
	snap   Snapshot
	last   transform.State
}

// Phase reports the current state.
func (in *Interpreter) Phase() Phase { return in.phase }

// Anchor returns the drag anchor. It is only meaningful while Dragging.
func (in *Interpreter) Anchor() Anchor { return in.anchor }

// Snapshot returns the two-touch snapshot. It is only meaningful while
// Transforming.
func (in *Interpreter) Snapshot() Snapshot { return in.snap }

// Reset drops any gesture in progress.
func (in *Interpreter) Reset() {
	in.phase = Idle
	in.anchor = Anchor{}
	in.snap = Snapshot{}
}

// PointerDown starts a drag at the window position p.
func (in *Interpreter) PointerDown(p Point, s transform.State) transform.State {
	if in.phase == Transforming {
		return s
	}
	in.beginDrag(in.View.ToRaster(p), s)
	return s
}

// PointerMove repositions the image while dragging.
func (in *Interpreter) PointerMove(p Point, s transform.State) transform.State {
	if in.phase != Dragging {
		return s
	}
	return in.drag(in.View.ToRaster(p), s)
}

// PointerUp ends a pointer drag. It also covers the pointer leaving the
// window.
func (in *Interpreter) PointerUp(s transform.State) transform.State {
	if in.phase == Dragging {
		in.phase = Idle
	}
	return s
}

// TouchStart handles a finger landing. live holds every active touch in
// window coordinates, oldest first.
func (in *Interpreter) TouchStart(live []Point, s transform.State) transform.State {
	switch len(live) {
	case 1:
		in.beginDrag(in.View.ToRaster(live[0]), s)
	case 2:
		in.beginTransform(live[0], live[1], s)
	}
	return s
}

// TouchMove handles finger movement.
func (in *Interpreter) TouchMove(live []Point, s transform.State) transform.State {
	switch {
	case len(live) == 1 && in.phase == Dragging:
		return in.drag(in.View.ToRaster(live[0]), s)
	case len(live) == 2:
		if in.phase != Transforming {
			in.beginTransform(live[0], live[1], s)
		}
		return in.transform(live[0], live[1], s)
	}
	return s
}

// TouchEnd handles a finger lifting. live holds the touches that remain.
func (in *Interpreter) TouchEnd(live []Point, s transform.State) transform.State {
	switch len(live) {
	case 0:
		in.Reset()
	case 1:
		in.beginDrag(in.View.ToRaster(live[0]), s)
	}
	return s
}

// Indicator returns the overlay text shown while Transforming.
func (in *Interpreter) Indicator() (string, bool) {
	if in.phase != Transforming {
		return "", false
	}
	return FormatIndicator(in.last), true
}

// FormatIndicator renders rounded zoom percent and rotation.
func FormatIndicator(s transform.State) string {
	return fmt.Sprintf("Zoom: %d%% | Rotate: %d°", int(math.Round(s.Scale*100)), int(math.Round(s.Rotation)))
}

func (in *Interpreter) beginDrag(p Point, s transform.State) {
	cx, cy := s.Center(in.Image)
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	in.anchor = Anchor{X: (p.X - cx) / scale, Y: (p.Y - cy) / scale}
	in.phase = Dragging
}

func (in *Interpreter) drag(p Point, s transform.State) transform.State {
	half := Point{X: float64(in.Image.W) * s.Scale / 2, Y: float64(in.Image.H) * s.Scale / 2}
	return s.WithPosition(
		p.X-in.anchor.X*s.Scale-half.X,
		p.Y-in.anchor.Y*s.Scale-half.Y,
	)
}

func (in *Interpreter) beginTransform(a, b Point, s transform.State) {
	dx, dy := b.X-a.X, b.Y-a.Y
	sx, sy := SkewComponents(dx, dy)
	in.snap = Snapshot{
		Scale:    s.Scale,
		Rotation: s.Rotation,
		SkewX:    s.SkewX,
		SkewY:    s.SkewY,
		Distance: math.Hypot(dx, dy),
		Angle:    angle(dx, dy),
		SlopeX:   sx,
		SlopeY:   sy,
	}
	in.phase = Transforming
	in.last = s
}

func (in *Interpreter) transform(a, b Point, s transform.State) transform.State {
	dx, dy := b.X-a.X, b.Y-a.Y
	if in.snap.Distance > 0 {
		s = s.WithScale(in.snap.Scale * math.Hypot(dx, dy) / in.snap.Distance)
	}
	s = s.WithRotation(in.snap.Rotation + (angle(dx, dy) - in.snap.Angle))
	sx, sy := SkewComponents(dx, dy)
	s = s.WithSkew(in.snap.SkewX+(sx-in.snap.SlopeX), in.snap.SkewY+(sy-in.snap.SlopeY))
	in.last = s
	return s
}

// SkewComponents derives the shear pair (dy/dx, dx/dy) scaled by 0.1 from a
// finger pair delta. A divisor under minAxisRatio of the pair distance
// yields 0 for that component.
func SkewComponents(dx, dy float64) (float64, float64) {
	var sx, sy float64
	limit := minAxisRatio * math.Hypot(dx, dy)
	if limit == 0 {
		return 0, 0
	}
	if math.Abs(dx) >= limit {
		sx = dy / dx * skewFactor
	}
	if math.Abs(dy) >= limit {
		sy = dx / dy * skewFactor
	}
	return sx, sy
}

func angle(dx, dy float64) float64 {
	return math.Atan2(dy, dx) * 180 / math.Pi
}
