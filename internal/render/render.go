// Package render draws wallpaper frames: the background fill, the source
// image through its affine placement, the drop shadow and the center guides.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/palette"
	"github.com/example/wallsmith/internal/transform"
)

// GuideColor is the stroke color of the center guides.
var GuideColor = color.NRGBA{R: 255, A: 128}

// Scene is everything a frame depends on.
type Scene struct {
	Size       canvas.Size
	Background palette.RGB
	// Image is the source bitmap, nil when nothing is loaded.
	Image  image.Image
	State  transform.State
	Guides bool
	Shadow ShadowOptions
}

// Result is a rendered frame. State carries the placement after center
// snapping and should replace the caller's state.
type Result struct {
	Image *image.RGBA
	State transform.State
	Snaps transform.Guides
}

// Renderer draws frames. It caches the drop shadow of the current source and
// the guide masks for the current raster size.
type Renderer struct {
	Logger *slog.Logger
	// Interpolator resamples the source. BiLinear is used when nil.
	Interpolator xdraw.Interpolator

	shadowSrc  image.Image
	shadowOpts ShadowOptions
	shadow     ShadowResult

	maskSize canvas.Size
	masks    map[transform.Guides]*image.Alpha
}

// Render fills the background, snaps the placement to the canvas center,
// draws the image through its affine transform and, when requested, strokes
// the active guides.
func (r *Renderer) Render(sc Scene) Result {
	size := sc.Size
	if size.Empty() {
		size = canvas.Size{W: 1, H: 1}
	}
	size.W, size.H = min(size.W, canvas.MaxDimension), min(size.H, canvas.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(sc.Background), image.Point{}, draw.Src)

	res := Result{Image: dst, State: sc.State}
	if sc.Image == nil || sc.Image.Bounds().Empty() {
		return res
	}
	b := sc.Image.Bounds()
	imgSize := canvas.Size{W: b.Dx(), H: b.Dy()}
	res.State, res.Snaps = sc.State.Snap(imgSize, size)

	src := sc.Image
	m := res.State.Matrix(imgSize)
	if sc.Shadow.Opacity > 0 {
		sh := r.shadowFor(src, sc.Shadow)
		if sh.Image != nil {
			src = sh.Image
			m = m.Multiply(gg.Translate(-float64(sh.Offset.X), -float64(sh.Offset.Y)))
		}
	}
	sb := src.Bounds()
	m = m.Multiply(gg.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)))

	interp := r.Interpolator
	if interp == nil {
		interp = xdraw.BiLinear
	}
	interp.Transform(dst, toAff3(m), src, sb, xdraw.Over, nil)

	if sc.Guides && res.Snaps.Any() {
		mask := r.guideMask(size, res.Snaps)
		draw.DrawMask(dst, dst.Bounds(), image.NewUniform(GuideColor), image.Point{}, mask, image.Point{}, draw.Over)
	}
	return res
}

func toAff3(m gg.Matrix) f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

func (r *Renderer) shadowFor(src image.Image, opts ShadowOptions) ShadowResult {
	if r.shadowSrc == src && r.shadowOpts == opts && r.shadow.Image != nil {
		return r.shadow
	}
	rgba, ok := src.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(src.Bounds())
		draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	r.shadowSrc = src
	r.shadowOpts = opts
	r.shadow = ApplyShadow(rgba, opts)
	return r.shadow
}

// guideMask returns the coverage of the guide lines for size. Lines are
// stroked white on an opaque black gg context and the red channel is kept
// as coverage.
func (r *Renderer) guideMask(size canvas.Size, g transform.Guides) *image.Alpha {
	if r.maskSize != size {
		r.masks = make(map[transform.Guides]*image.Alpha)
		r.maskSize = size
	}
	if m, ok := r.masks[g]; ok {
		return m
	}
	dc := gg.NewContext(size.W, size.H)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0, 0, 0))
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	cx, cy := float64(size.W)/2, float64(size.H)/2
	if g.X {
		dc.DrawLine(cx, 0, cx, float64(size.H))
		if err := dc.Stroke(); err != nil {
			r.logger().Warn("stroke vertical guide", "err", err)
		}
	}
	if g.Y {
		dc.DrawLine(0, cy, float64(size.W), cy)
		if err := dc.Stroke(); err != nil {
			r.logger().Warn("stroke horizontal guide", "err", err)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, size.W, size.H))
	switch src := dc.Image().(type) {
	case *image.RGBA:
		for y := 0; y < size.H; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < size.W; x++ {
				mask.Pix[y*mask.Stride+x] = row[x*4]
			}
		}
	default:
		for y := 0; y < size.H; y++ {
			for x := 0; x < size.W; x++ {
				cr, _, _, _ := src.At(x, y).RGBA()
				mask.Pix[y*mask.Stride+x] = uint8(cr >> 8)
			}
		}
	}
	r.masks[g] = mask
	return mask
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
